// Package notify turns one logical notification into concrete
// deliveries across push, email, sms and the in-app fresco feed.
//
// A Spec names a notification type, an abstract recipient set (user and
// outlet references) and one optional payload section per channel. The
// Resolver expands it into per-channel recipient lists, honoring each
// user's opt-in settings for the type; the Dispatcher sends those lists
// through the configured channel senders concurrently, isolating
// failures per channel. Notifier composes both:
//
//	notifier, err := notify.NewNotifier(store, notify.Senders{
//		Email: emailSender,
//		Push:  pushSender,
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := notifier.Notify(ctx, notify.Spec{
//		Type:       "comment-liked",
//		Recipients: notify.Recipients{Users: notify.UserIDs("u1", "u2")},
//		Payload: notify.Payload{
//			Push:  map[string]any{"title": "New likes"},
//			Email: map[string]any{"subject": "New likes", "body": "..."},
//		},
//	})
//
// A failing channel never aborts its siblings: each channel settles into
// its own slot of the DispatchResult, with the error recorded there.
// Resolution failures, by contrast, are hard errors since no channel can
// run without recipient lists.
//
// Hooks is the receiving end of the coalescing pipeline: it routes the
// scheduler's fired-event webhooks to per-type handlers that typically
// build a Spec from the merged payload and call Notify.
package notify
