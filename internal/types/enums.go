package types

type Ecosystem string

const (
	EcosystemNpm   Ecosystem = "npm"
	EcosystemPip   Ecosystem = "pip"
	EcosystemGo    Ecosystem = "go"
	EcosystemMaven Ecosystem = "maven"
	EcosystemApt   Ecosystem = "apt"
)

// Ecosystems returns the closed set of supported ecosystems in
// registration order.
func Ecosystems() []Ecosystem {
	return []Ecosystem{EcosystemNpm, EcosystemPip, EcosystemGo, EcosystemMaven, EcosystemApt}
}

type ResultType string

const (
	ResultTypeRuntime    ResultType = "runtime"
	ResultTypeService    ResultType = "service"
	ResultTypeDependency ResultType = "dependency"
	ResultTypeTool       ResultType = "tool"
)

type SortBy string

const (
	SortByRelevance SortBy = "relevance"
	SortByDownloads SortBy = "downloads"
	SortByUpdated   SortBy = "updated"
	SortByName      SortBy = "name"
)

type Ordering int

const (
	OrderingLess    Ordering = -1
	OrderingEqual   Ordering = 0
	OrderingGreater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case OrderingLess:
		return "less"
	case OrderingGreater:
		return "greater"
	default:
		return "equal"
	}
}

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
