package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Build (компилятор и эвристики)
	BuildInfo               Code = 1000
	BuildCompilerDiagnostic Code = 1001
	BuildRiskyDirective     Code = 1002
	BuildUncheckedAssertion Code = 1003

	// Imports
	ImpInfo                 Code = 2000
	ImpUnresolved           Code = 2001
	ImpKnownMissingModule   Code = 2002
	ImpForbiddenPackage     Code = 2003
	ImpUnknownUIComponent   Code = 2004
	ImpMissingDefaultExport Code = 2005
	ImpMissingRootExport    Code = 2006

	// Navigation
	NavInfo           Code = 3000
	NavSuspiciousHref Code = 3001

	// IO / orchestration
	IOInfo           Code = 4000
	IOUnreadableFile Code = 4001
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "SIFT0000"
	case BuildInfo:
		return "SIFT1000"
	case BuildCompilerDiagnostic:
		return "SIFT1001"
	case BuildRiskyDirective:
		return "SIFT1002"
	case BuildUncheckedAssertion:
		return "SIFT1003"
	case ImpInfo:
		return "SIFT2000"
	case ImpUnresolved:
		return "SIFT2001"
	case ImpKnownMissingModule:
		return "SIFT2002"
	case ImpForbiddenPackage:
		return "SIFT2003"
	case ImpUnknownUIComponent:
		return "SIFT2004"
	case ImpMissingDefaultExport:
		return "SIFT2005"
	case ImpMissingRootExport:
		return "SIFT2006"
	case NavInfo:
		return "SIFT3000"
	case NavSuspiciousHref:
		return "SIFT3001"
	case IOInfo:
		return "SIFT4000"
	case IOUnreadableFile:
		return "SIFT4001"
	}
	return fmt.Sprintf("SIFT%04d", uint16(c))
}
