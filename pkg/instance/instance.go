package instance

import "github.com/MOR6969/vape-bill/pkg/env"

// GetID returns the identifier this process logs under: VAPEBILL_INSTANCE_ID,
// then the platform DYNO name, then "local".
func GetID() string {
	return env.First("local", "VAPEBILL_INSTANCE_ID", "DYNO")
}
