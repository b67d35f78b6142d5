package logseq

// Page formats accepted by CreatePage.
const (
	PageFormatMarkdown = "markdown"
	PageFormatOrg      = "org"
)

// Task markers recognized by GetTasks filtering.
const (
	MarkerTODO      = "TODO"
	MarkerDoing     = "DOING"
	MarkerDone      = "DONE"
	MarkerNow       = "NOW"
	MarkerLater     = "LATER"
	MarkerWaiting   = "WAITING"
	MarkerCancelled = "CANCELLED"
)

// Task priorities, highest first.
const (
	PriorityHigh   = "A"
	PriorityMedium = "B"
	PriorityLow    = "C"
)

// InsertBlockInput describes a new block.
type InsertBlockInput struct {
	// ParentBlock is a block UUID or page name; empty inserts
	// relative to the current context.
	ParentBlock string         `json:"parent_block"`
	Content     string         `json:"content" validate:"required"`
	IsPageBlock bool           `json:"is_page_block"`
	Before      bool           `json:"before"`
	CustomUUID  string         `json:"custom_uuid"`
	Properties  map[string]any `json:"properties"`
}

func (in *InsertBlockInput) normalize() {
	in.ParentBlock = unwrapBlockRef(in.ParentBlock)
	in.CustomUUID = unwrapBlockRef(in.CustomUUID)
}

// UpdateBlockInput replaces a block's content and optionally its
// properties.
type UpdateBlockInput struct {
	UUID       string         `json:"uuid" validate:"required"`
	Content    string         `json:"content" validate:"required"`
	Properties map[string]any `json:"properties"`
}

func (in *UpdateBlockInput) normalize() {
	in.UUID = unwrapBlockRef(in.UUID)
}

// DeleteBlockInput names the block to remove.
type DeleteBlockInput struct {
	UUID string `json:"uuid" validate:"required"`
}

func (in *DeleteBlockInput) normalize() {
	in.UUID = unwrapBlockRef(in.UUID)
}

// GetBlockInput names the block to fetch.
type GetBlockInput struct {
	UUID string `json:"uuid" validate:"required"`
}

func (in *GetBlockInput) normalize() {
	in.UUID = unwrapBlockRef(in.UUID)
}

// MoveBlockInput relocates a block next to (or under) a target.
type MoveBlockInput struct {
	UUID       string `json:"uuid" validate:"required"`
	TargetUUID string `json:"target_uuid" validate:"required"`
	AsChild    bool   `json:"as_child"`
}

func (in *MoveBlockInput) normalize() {
	in.UUID = unwrapBlockRef(in.UUID)
	in.TargetUUID = unwrapBlockRef(in.TargetUUID)
}

// BatchBlockInput inserts several blocks under one parent.
type BatchBlockInput struct {
	Parent string           `json:"parent" validate:"required"`
	Blocks []map[string]any `json:"blocks" validate:"required"`
}

func (in *BatchBlockInput) normalize() {
	in.Parent = unwrapBlockRef(in.Parent)
}

// EditBlockInput enters edit mode at a cursor position.
type EditBlockInput struct {
	UUID string `json:"uuid" validate:"required"`
	Pos  int    `json:"pos" validate:"gte=0,lte=10000"`
}

func (in *EditBlockInput) normalize() {
	in.UUID = unwrapBlockRef(in.UUID)
}

// ExitEditingInput leaves edit mode.
type ExitEditingInput struct {
	SelectBlock bool `json:"select_block"`
}

// CreatePageInput describes a new page.
type CreatePageInput struct {
	PageName   string         `json:"page_name" validate:"required"`
	Properties map[string]any `json:"properties"`
	Journal    bool           `json:"journal"`
	Format     string         `json:"format" validate:"omitempty,oneof=markdown org"`
	// CreateFirstBlock controls whether the page starts with an
	// empty block. Unset means true.
	CreateFirstBlock *bool `json:"create_first_block"`
}

// GetPageInput names the page to fetch.
type GetPageInput struct {
	PageName        string `json:"page_name" validate:"required"`
	IncludeChildren bool   `json:"include_children"`
}

func (in *GetPageInput) normalize() {
	in.PageName = unwrapBlockRef(in.PageName)
}

// DeletePageInput names the page to remove.
type DeletePageInput struct {
	PageName string `json:"page_name" validate:"required"`
}

// RenamePageInput renames a page.
type RenamePageInput struct {
	OldName string `json:"old_name" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

// GetAllPagesInput lists pages, optionally from a named repo.
type GetAllPagesInput struct {
	Repo string `json:"repo"`
}

// SimpleQueryInput runs a Logseq query such as "[[tag]]".
type SimpleQueryInput struct {
	Query string `json:"query" validate:"required"`
}

// AdvancedQueryInput runs a DataScript query with optional inputs.
type AdvancedQueryInput struct {
	Query  string `json:"query" validate:"required"`
	Inputs []any  `json:"inputs"`
}

// GetTasksInput filters marked blocks by marker and priority.
type GetTasksInput struct {
	Marker   string `json:"marker" validate:"omitempty,oneof=TODO DOING DONE NOW LATER WAITING CANCELLED"`
	Priority string `json:"priority" validate:"omitempty,oneof=A B C"`
}

// GitCommitInput commits the graph's working tree.
type GitCommitInput struct {
	Message string `json:"message" validate:"required"`
}
