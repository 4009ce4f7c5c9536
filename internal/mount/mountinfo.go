package mount

import (
	"strings"

	"github.com/moby/sys/mountinfo"
	"github.com/padll/iointerpose/logging"
)

// CheckRemoteConfigured cross-checks the configured remote prefix
// against the live mount table using github.com/moby/sys/mountinfo. It
// does not change Extract's substring-match semantics anywhere — it
// only logs one diagnostic at table-construction time when the
// configured prefix corresponds to no mounted filesystem, narrowing the
// misconfiguration signal to a single startup check instead of a
// per-path one.
func CheckRemoteConfigured(remotePrefix string, log logging.Logger) {
	if remotePrefix == "" {
		return
	}
	if log == nil {
		log = logging.Discard
	}

	infos, err := mountinfo.GetMounts(nil)
	if err != nil {
		log.Printf("mount: could not read live mount table to validate %q: %v", remotePrefix, err)
		return
	}
	for _, info := range infos {
		if strings.Contains(info.Mountpoint, remotePrefix) {
			return
		}
	}
	log.Printf("mount: configured remote mount-point %q does not match any live mount; paths under it will still classify, but double-check the configuration", remotePrefix)
}
