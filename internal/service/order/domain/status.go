package domain

// Status 是订单的生命周期状态。
// Pending 只能流转到 Completed 或 Cancelled，二者均为终态。
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Terminal 表示订单已不可再变更。
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo 判断 s -> next 是否为合法流转。
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.Terminal()
}
