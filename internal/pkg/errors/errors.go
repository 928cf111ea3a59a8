// Package errors 애플리케이션 전용 에러 타입(AppError)과 에러 체이닝 도구를 제공합니다.
//
// 모든 에러는 ErrorType으로 분류되며, Wrap 계열 함수로 원인 에러에 문맥을 덧붙일 수 있습니다.
// 분류된 타입은 HTTP 응답 코드 결정, 로그 레벨 결정 등 에러 처리 정책의 기준이 됩니다.
//
// 사용 예시:
//
//	// 저장소 계층: 외부 라이브러리 에러를 분류하여 감싼다.
//	if err := tx.Commit(); err != nil {
//	    return errors.Wrap(err, errors.System, "할당 레코드 갱신 트랜잭션 커밋에 실패했습니다")
//	}
//
//	// 호출 계층: 타입으로 분기한다.
//	if errors.Is(err, errors.NotFound) {
//	    // 등록되지 않은 태그
//	}
//
// 타입 선택 기준:
//   - 입력 계층의 검증 실패는 InvalidInput
//   - 저장소, 파일, 네트워크 등 인프라 장애는 System 또는 Unavailable
//   - 존재하지 않는 리소스는 NotFound
//   - 발생해서는 안 되는 상태(버그)는 Internal
package errors

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// AppError 애플리케이션에서 발생하는 에러를 표준화하여 표현하는 구조체입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

// Type 에러의 타입을 반환합니다.
func (e *AppError) Type() ErrorType {
	return e.errType
}

// Message 에러 메시지를 반환합니다.
func (e *AppError) Message() string {
	return e.message
}

// Stack 에러 생성 시점의 호출 스택을 반환합니다.
func (e *AppError) Stack() []StackFrame {
	return e.stack
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.errType, e.message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format fmt.Formatter 인터페이스를 구현합니다.
// %+v 로 출력하면 에러 체인과 스택 트레이스를 함께 출력합니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

			// 스택은 체인의 가장 안쪽 AppError 또는 외부 에러와의 경계에서만 출력한다.
			var inner *AppError
			if e.cause == nil || !errors.As(e.cause, &inner) {
				writeStack(s, e.stack)
			}

			if e.cause != nil {
				fmt.Fprint(s, "\nCaused by:\n")
				if f, ok := e.cause.(fmt.Formatter); ok {
					f.Format(s, verb)
				} else {
					fmt.Fprintf(s, "\t%v", e.cause)
				}
			}
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

func writeStack(w io.Writer, stack []StackFrame) {
	if len(stack) == 0 {
		return
	}

	fmt.Fprint(w, "\nStack trace:")
	for _, frame := range stack {
		funcName := frame.Function
		if idx := strings.LastIndex(funcName, "/"); idx != -1 {
			funcName = funcName[idx+1:]
		}
		fmt.Fprintf(w, "\n\t%s:%d %s", frame.File, frame.Line, funcName)
	}
}

// New 새로운 에러를 생성합니다.
func New(errType ErrorType, message string) error {
	return &AppError{
		errType: errType,
		message: message,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Newf 포맷 문자열로 새로운 에러를 생성합니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrap 기존 에러를 감싸 문맥을 추가합니다. err 가 nil 이면 nil 을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: message,
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrapf 포맷 문자열로 기존 에러를 감쌉니다. err 가 nil 이면 nil 을 반환합니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Is 에러 체인에 지정된 ErrorType의 AppError가 포함되어 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// As 표준 errors.As 의 얇은 래퍼입니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause 에러 체인의 가장 안쪽 원인 에러를 반환합니다.
func RootCause(err error) error {
	if err == nil {
		return nil
	}

	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// UnderlyingType 에러 체인에서 가장 안쪽에 있는 AppError의 ErrorType을 반환합니다.
//
// 체인에 AppError가 없거나 err 가 nil 이면 Unknown 을 반환합니다.
// HTTP 응답 코드를 결정할 때처럼 여러 겹으로 감싸진 에러의 본래 분류가 필요할 때 사용합니다.
func UnderlyingType(err error) ErrorType {
	underlying := Unknown
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			underlying = appErr.errType
		}
		err = errors.Unwrap(err)
	}
	return underlying
}
