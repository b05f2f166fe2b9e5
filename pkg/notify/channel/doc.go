// Package channel implements the per-medium send primitives behind
// notification dispatch: Postmark email, an SMS gateway, the APNS/GCM
// push relay and the AMQP-backed in-app feed ("fresco").
//
// Two sender shapes exist. Simple-ack senders (email, sms, fresco)
// succeed or fail as a whole; the batch-ack push sender reports
// per-recipient outcomes. Each sender is a narrow client over its
// provider - retry policy and delivery guarantees belong to the
// provider, not here.
package channel
