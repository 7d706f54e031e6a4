package types

import (
	"errors"
	"fmt"
	"strings"
)

// 错误类别，配合 errors.Is 使用
var (
	ErrDuplicateID            = errors.New("duplicate id")
	ErrUnknownBus             = errors.New("unknown bus")
	ErrUnsupportedElementType = errors.New("unsupported element type")
	ErrInconsistentBase       = errors.New("inconsistent base")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrSingularReduction      = errors.New("singular reduction")
	ErrMissingOperatingPoint  = errors.New("missing operating point")
	ErrFrozen                 = errors.New("network is frozen")
)

// DuplicateIDError 母线或元件标识重复
type DuplicateIDError struct {
	Kind string // "bus" 或 "element"
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %q: duplicate id", e.Kind, e.ID)
}

// Is 实现 errors.Is
func (e *DuplicateIDError) Is(target error) bool { return target == ErrDuplicateID }

// UnknownBusError 元件端口引用了不存在的母线
type UnknownBusError struct {
	ElementID ElementID
	BusID     BusID
}

func (e *UnknownBusError) Error() string {
	if e.ElementID == "" {
		return fmt.Sprintf("bus %q: unknown bus", e.BusID)
	}
	return fmt.Sprintf("element %q: unknown bus %q", e.ElementID, e.BusID)
}

// Is 实现 errors.Is
func (e *UnknownBusError) Is(target error) bool { return target == ErrUnknownBus }

// UnsupportedElementTypeError 元件类型无法加盖
type UnsupportedElementTypeError struct {
	ElementID ElementID
	Tag       string
}

func (e *UnsupportedElementTypeError) Error() string {
	return fmt.Sprintf("element %q: unsupported element type %q", e.ElementID, e.Tag)
}

// Is 实现 errors.Is
func (e *UnsupportedElementTypeError) Is(target error) bool {
	return target == ErrUnsupportedElementType
}

// InconsistentBaseError 元件参数不在系统基准容量上
type InconsistentBaseError struct {
	ElementID ElementID
	Got       float64
	Want      float64
}

func (e *InconsistentBaseError) Error() string {
	return fmt.Sprintf("element %q: per-unit base %g MVA, network base %g MVA", e.ElementID, e.Got, e.Want)
}

// Is 实现 errors.Is
func (e *InconsistentBaseError) Is(target error) bool { return target == ErrInconsistentBase }

// InvalidParameterError 参数非法（NaN、零阻抗电源等）
type InvalidParameterError struct {
	ID     string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%q: %s", e.ID, e.Reason)
}

// Is 实现 errors.Is
func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// SingularReductionError 被消去块数值奇异
type SingularReductionError struct {
	Buses []BusID // 导致奇异的孤岛母线
	Cond  float64 // 条件数估计
}

func (e *SingularReductionError) Error() string {
	return fmt.Sprintf("eliminated buses [%s] are singular (condition number %.3g)", strings.Join(e.Buses, ", "), e.Cond)
}

// Is 实现 errors.Is
func (e *SingularReductionError) Is(target error) bool { return target == ErrSingularReduction }

// MissingOperatingPointError 保留母线缺少运行点相量
type MissingOperatingPointError struct {
	BusID BusID
}

func (e *MissingOperatingPointError) Error() string {
	return fmt.Sprintf("bus %q: no operating point phasor", e.BusID)
}

// Is 实现 errors.Is
func (e *MissingOperatingPointError) Is(target error) bool {
	return target == ErrMissingOperatingPoint
}
