package instance

import "github.com/sitecms/sitecms-backend/pkg/env"

// GetID returns the platform's identifier for this process (Heroku dyno,
// Cloud Run revision or host name), or "local".
func GetID() string {
	return env.First("local", "DYNO", "K_REVISION", "HOSTNAME")
}
