package prefs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the postgres-backed preference store.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a postgres-backed preference store.
func NewPGStore(pool *pgxpool.Pool) (*PGStore, error) {
	if pool == nil {
		return nil, errors.New("prefs: connection pool cannot be nil")
	}
	return &PGStore{pool: pool}, nil
}

const fetchQuery = `
SELECT u.id, u.name, u.email, u.phone,
       s.user_id, s.send_push, s.send_sms, s.send_fresco, s.send_email
FROM users u
LEFT JOIN user_notification_settings s
       ON s.user_id = u.id AND s.notification_type = $3
WHERE u.active
  AND (u.id = ANY($1)
       OR u.id IN (SELECT user_id FROM outlet_members WHERE outlet_id = ANY($2)))`

// FetchActiveUsersWithSettings runs a single query joining users, outlet
// membership and the per-type setting rows.
func (s *PGStore) FetchActiveUsersWithSettings(ctx context.Context, userIDs, outletIDs []string, notifType string) ([]UserWithSetting, error) {
	if len(userIDs) == 0 && len(outletIDs) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, fetchQuery, userIDs, outletIDs, notifType)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	var result []UserWithSetting
	for rows.Next() {
		var (
			row       UserWithSetting
			settingID *string
			sendPush  *bool
			sendSMS   *bool
			sendFres  *bool
			sendMail  *bool
		)
		if err := rows.Scan(
			&row.User.ID, &row.User.Name, &row.User.Email, &row.User.Phone,
			&settingID, &sendPush, &sendSMS, &sendFres, &sendMail,
		); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}

		if settingID != nil {
			row.Setting = &Setting{
				UserID:     *settingID,
				Type:       notifType,
				SendPush:   *sendPush,
				SendSMS:    *sendSMS,
				SendFresco: *sendFres,
				SendEmail:  *sendMail,
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	return result, nil
}
