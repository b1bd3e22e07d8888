package domain

import "time"

// RuleType distinguishes the rule families analysts can author.
// Only workflow rules participate in the merged visualization.
type RuleType string

const (
	RuleTypeWorkflow RuleType = "workflow"
	RuleTypeTAT      RuleType = "tat"
	RuleTypeQueue    RuleType = "queue"
)

// TriggerEvent is a request/service lifecycle event that fires a workflow rule.
type TriggerEvent string

const (
	TriggerCreateRequest    TriggerEvent = "CREATE_REQUEST"
	TriggerEditRequest      TriggerEvent = "EDIT_REQUEST"
	TriggerCloseRequest     TriggerEvent = "CLOSE_REQUEST"
	TriggerDischargeRequest TriggerEvent = "DISCHARGE_REQUEST"
	TriggerCreateService    TriggerEvent = "CREATE_SERVICE"
	TriggerEditService      TriggerEvent = "EDIT_SERVICE"
)

// RequestType is the optional inpatient/outpatient filter on a rule.
// An empty value means the rule applies to any request type.
type RequestType string

const (
	RequestTypeInpatient  RequestType = "inpatient"
	RequestTypeOutpatient RequestType = "outpatient"
	RequestTypeAny        RequestType = ""
)

// ConditionKind tags the origin of a condition within a rule.
type ConditionKind string

const (
	ConditionStandard ConditionKind = "standard"
	ConditionCustom   ConditionKind = "custom"
)

// StandardCriterion is a condition on a built-in request field.
type StandardCriterion struct {
	Field        string   `json:"field"`
	Operator     string   `json:"operator"`
	Values       []string `json:"values"`
	ProviderRole string   `json:"providerRole,omitempty"`
	AlternateID  string   `json:"alternateId,omitempty"`
}

// CustomCriterion is a condition on a tenant-defined custom field.
type CustomCriterion struct {
	Association string   `json:"association"`
	TemplateID  string   `json:"templateId"`
	Operator    string   `json:"operator"`
	Values      []string `json:"values"`
}

// ActionKind enumerates the fixed set of workflow actions.
type ActionKind string

const (
	ActionRouteDepartment   ActionKind = "route_department"
	ActionCloseRequest      ActionKind = "close_request"
	ActionDischarge         ActionKind = "discharge"
	ActionGenerateLetter    ActionKind = "generate_letter"
	ActionCreateTask        ActionKind = "create_task"
	ActionTransferOwnership ActionKind = "transfer_ownership"
	ActionCreateReferral    ActionKind = "create_referral"
)

// Action is one entry in a rule's ordered action list. Exactly one payload
// field matching Kind is populated; the others stay nil.
type Action struct {
	Kind ActionKind `json:"kind"`

	RouteDepartment   *RouteDepartmentAction   `json:"routeDepartment,omitempty"`
	CloseRequest      *CloseRequestAction      `json:"closeRequest,omitempty"`
	Discharge         *DischargeAction         `json:"discharge,omitempty"`
	GenerateLetter    *GenerateLetterAction    `json:"generateLetter,omitempty"`
	CreateTask        *CreateTaskAction        `json:"createTask,omitempty"`
	TransferOwnership *TransferOwnershipAction `json:"transferOwnership,omitempty"`
	CreateReferral    *CreateReferralAction    `json:"createReferral,omitempty"`
}

// RouteDepartmentAction routes the request to a department queue.
type RouteDepartmentAction struct {
	DepartmentID string `json:"departmentId"`
}

// CloseRequestAction closes the request with a disposition.
type CloseRequestAction struct {
	Disposition string `json:"disposition"`
}

// DischargeAction marks the associated stay as discharged.
type DischargeAction struct {
	DischargeTo string `json:"dischargeTo,omitempty"`
}

// GenerateLetterAction generates a letter from a template.
type GenerateLetterAction struct {
	TemplateID string `json:"templateId"`
	Recipient  string `json:"recipient,omitempty"`
}

// CreateTaskAction creates a follow-up task.
type CreateTaskAction struct {
	TaskType     string `json:"taskType"`
	AssigneeRole string `json:"assigneeRole,omitempty"`
	DueInHours   int    `json:"dueInHours,omitempty"`
}

// TransferOwnershipAction reassigns request ownership.
type TransferOwnershipAction struct {
	OwnerRole string `json:"ownerRole"`
}

// CreateReferralAction creates a downstream referral.
type CreateReferralAction struct {
	ReferralType string `json:"referralType"`
}

// Rule is a persisted rule document authored on the canvas. Rules are
// immutable inputs to the merge engine; it never writes them back.
type Rule struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenantId"`
	Name     string   `json:"name"`
	Type     RuleType `json:"type"`

	TriggerEvents []TriggerEvent `json:"triggerEvents,omitempty"`
	RequestType   RequestType    `json:"requestType,omitempty"`

	StandardCriteria []StandardCriterion `json:"standardCriteria,omitempty"`
	CustomCriteria   []CustomCriterion   `json:"customCriteria,omitempty"`

	Actions []Action `json:"actions,omitempty"`

	// Expression is an optional CEL gating expression checked at authoring
	// time. It is validated but never executed by this service.
	Expression string `json:"expression,omitempty"`

	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
