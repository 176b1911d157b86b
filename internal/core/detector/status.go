package detector

import (
	"context"
	"net/netip"
	"net/url"

	"oarr/internal/core/register"
)

// OperationalStatus marks an unreachable home page Broken, an IP or explicit port Trial,
// and anything else Operational. It is the only detector that overwrites the status
type OperationalStatus struct{}

func (OperationalStatus) Name() string { return "Operational Status" }

func (OperationalStatus) Detectable(r *register.Register) bool { return hasRepoURL(r) }

func (OperationalStatus) Detect(ctx context.Context, r *register.Register, info Info) error {
	if info.URLGet(ctx, r.RepoURL()) == nil {
		r.SetOperationalStatus(register.StatusBroken)
		return nil
	}
	u, err := url.Parse(r.RepoURL())
	if err != nil {
		r.SetOperationalStatus(register.StatusBroken)
		return nil
	}
	if u.Port() != "" || isIPLiteral(u.Hostname()) {
		r.SetOperationalStatus(register.StatusTrial)
		return nil
	}
	r.SetOperationalStatus(register.StatusOperational)
	return nil
}

// isIPLiteral holds for v4 and v6 literals; Hostname has already dropped the brackets
func isIPLiteral(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}
