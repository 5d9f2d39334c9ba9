package workflow

// Kind describes one absence request kind. The state machine itself is the
// same for all kinds; only category handling and the ledger side effect differ.
type Kind struct {
	Name          string
	Label         string
	Path          string
	Table         string
	Resource      string
	UsesCategory  bool
	TouchesLedger bool
}

var (
	KindLeave = Kind{
		Name:          "leave",
		Label:         "Leave",
		Path:          "/leaves",
		Table:         "leave_requests",
		Resource:      "leave",
		UsesCategory:  true,
		TouchesLedger: true,
	}
	KindWFH = Kind{
		Name:          "wfh",
		Label:         "WFH",
		Path:          "/wfh",
		Table:         "wfh_requests",
		Resource:      "wfh",
		UsesCategory:  false,
		TouchesLedger: false,
	}
)

// CommitsLedger reports whether approving a request of this kind with the
// given category must consume allowance.
func (k Kind) CommitsLedger(category Category) bool {
	return k.TouchesLedger && k.UsesCategory && category.Accruing()
}

// Kinds lists every request kind the service mounts.
func Kinds() []Kind {
	return []Kind{KindLeave, KindWFH}
}
