package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewSessions([]byte("secret"), time.Hour)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		at      time.Time
		token   string
		wantID  int64
		wantErr bool
	}{
		{name: "valid", secret: "secret", at: now.Add(time.Minute), token: token, wantID: 42},
		{name: "expired", secret: "secret", at: now.Add(2 * time.Hour), token: token, wantErr: true},
		{name: "wrong secret", secret: "other", at: now, token: token, wantErr: true},
		{name: "tampered", secret: "secret", at: now, token: token + "x", wantErr: true},
		{name: "garbage", secret: "secret", at: now, token: "not-a-token", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSessions([]byte(tt.secret), time.Hour)
			s.now = func() time.Time { return tt.at }

			id, err := s.Parse(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSession)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, id)
		})
	}
}
