package domain

import "errors"

// 领域错误：前置条件不满足时返回，不会自动重试。
// 只有 ErrStorageUnavailable 属于可重试类别（底层连接/超时）。
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrDuplicateApp       = errors.New("duplicate application")
	ErrDuplicateFeedback  = errors.New("duplicate feedback")
	ErrInvalidRating      = errors.New("invalid rating")
	ErrSelfApplication    = errors.New("cannot apply to own offer")
	ErrOfferNotAccepting  = errors.New("offer not accepting applications")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrAlreadyExists 唯一键冲突的内部信号，由生命周期层翻译成
	// 对应的领域错误（已收藏 / DuplicateFeedback 等）
	ErrAlreadyExists = errors.New("already exists")
)
