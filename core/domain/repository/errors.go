package repository

import "errors"

var (
	// 会话相关错误
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionEnded    = errors.New("session already ended")
	ErrParticipants    = errors.New("wrong participant count for game mode")

	// 半庄相关错误
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchEnded         = errors.New("match already ended")
	ErrMatchInProgress    = errors.New("previous match still in progress")
	ErrHandOutOfRange     = errors.New("hand index out of range")
	ErrNoHands            = errors.New("match has no hands")
	ErrAdjustmentNotFound = errors.New("adjustment not found")
	ErrInvalidSeat        = errors.New("invalid seat")
	ErrInvalidAdjustment  = errors.New("adjustment delta must not be zero")

	// 快照相关错误
	ErrSnapshotNotFound = errors.New("match snapshot not found")

	// 存储错误
	ErrStorage = errors.New("storage failure")
)
