package config

import (
	"github.com/denisbrodbeck/machineid"
)

const appID = "logicbox"

// MachineID returns an ID of this machine for the logicbox app, or the
// app name when the machine has no ID.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil || len(id) < 12 {
		return appID
	}
	return id[:12]
}
