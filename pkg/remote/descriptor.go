package remote

// Capability names a remote service may advertise in its
// descriptor. Sessions only expose the optional time-handling
// methods the service declared.
const (
	// CapAdvanceTime means the service accepts explicit
	// simulated-clock advancement.
	CapAdvanceTime = "advance_time"

	// CapApplyDecay means the service can apply a single decay
	// interval on demand.
	CapApplyDecay = "apply_decay"
)

// Descriptor is the self-description a remote subject service
// returns from GET /.
type Descriptor struct {
	// Name identifies the implementation under test.
	Name string `json:"name"`

	// Version is the implementation version string.
	Version string `json:"version"`

	// Language names the implementation language.
	Language string `json:"language"`

	// License is the implementation's license identifier.
	License string `json:"license"`

	// Capabilities lists the optional operations the service
	// supports, e.g. "advance_time" or "apply_decay".
	Capabilities []string `json:"capabilities"`
}

// Has reports whether the descriptor advertises the named
// capability.
func (d Descriptor) Has(capability string) bool {
	for _, c := range d.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
