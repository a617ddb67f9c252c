package cons

// Callback slots a handler may fill in. Every slot is optional; a nil slot
// is simply skipped by the driver loops (§4.3). Signatures take the
// constraint they were invoked for except the handler-scoped lifecycle
// hooks (Free/Init/Exit/Presolve/Lock), which take the handler itself.
type (
	FreeFunc               func(h *Handler) error
	InitFunc               func(h *Handler) error
	ExitFunc               func(h *Handler) error
	DeleteConstraintFunc   func(h *Handler, c *Constraint) error
	TransformFunc          func(h *Handler, c *Constraint) error
	SeparateFunc           func(h *Handler, c *Constraint) (Result, error)
	EnforceLPFunc          func(h *Handler, c *Constraint) (Result, error)
	EnforcePseudoFunc      func(h *Handler, c *Constraint) (Result, error)
	CheckFunc              func(h *Handler, c *Constraint, values []float64, checkIntegrality, checkLPRows bool) (Result, error)
	PropagateFunc          func(h *Handler, c *Constraint) (Result, error)
	ResolvePropagationFunc func(h *Handler, c *Constraint) error
	PresolveFunc           func(h *Handler) (Result, error)
	LockFunc               func(h *Handler, c *Constraint) error
	ActiveFunc             func(h *Handler, c *Constraint) error
	DeactiveFunc           func(h *Handler, c *Constraint) error
	EnableFunc             func(h *Handler, c *Constraint) error
	DisableFunc            func(h *Handler, c *Constraint) error
	PrintFunc              func(h *Handler, c *Constraint) (string, error)
)

// Handler is a constraint handler declaration: a name, the three dispatch
// priorities, a propagation frequency, and the optional callback slots
// (§4.3). needsCons, when true, means the driver must keep at least one
// constraint of this handler's kind active even if presolve would
// otherwise remove it (some handlers carry global side effects).
type Handler struct {
	Name        string
	Description string

	SepaPriority int
	EnfoPriority int
	ChkPriority  int
	PropFreq     int // 0 = only before search
	NeedsCons    bool

	Free               FreeFunc
	Init               InitFunc
	Exit               ExitFunc
	DeleteConstraint   DeleteConstraintFunc
	Transform          TransformFunc
	Separate           SeparateFunc
	EnforceLP          EnforceLPFunc
	EnforcePseudo      EnforcePseudoFunc
	Check              CheckFunc
	Propagate          PropagateFunc
	ResolvePropagation ResolvePropagationFunc
	Presolve           PresolveFunc
	Lock               LockFunc
	Active             ActiveFunc
	Deactive           DeactiveFunc
	Enable             EnableFunc
	Disable            DisableFunc
	Print              PrintFunc

	// constraints owned by this handler, maintained by Registry.Add/Remove.
	constraints []*Constraint
}

// Constraints returns the handler's constraints in registration order.
func (h *Handler) Constraints() []*Constraint {
	return h.constraints
}
