package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrExclusionViolation 数据库排他约束冲突（并发预约竞争的败者）
var ErrExclusionViolation = errors.New("时间区间与已有记录冲突")

// PostgreSQL SQLSTATE 错误码
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
	pgSerializationFail  = "40001"
	pgDeadlockDetected   = "40P01"
	pgLockNotAvailable   = "55P03"
)

// IsExclusionViolation 判断错误是否为排他约束（EXCLUDE USING gist）冲突
func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsUniqueViolation 判断错误是否为唯一约束冲突
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsTransient 判断错误是否为可重试的瞬时存储错误
// （序列化失败、死锁、锁等待超时 — 并发预约场景的预期现象）
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgSerializationFail, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}

// WithRetry 对瞬时存储错误做有界重试，其余错误立即返回
func WithRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}
