package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// SprintFuncs honor color.NoColor, so plain output (--plain, NO_COLOR,
	// piped stderr) needs no separate formatting path.
	errorLabel    = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg      = color.New(color.FgRed).SprintFunc()
	fixLabel      = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel    = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText     = color.New(color.FgCyan).SprintFunc()
	bullet        = color.New(color.FgGreen).SprintFunc()
	categoryLabel = color.New(color.FgYellow).SprintFunc()
)

// FormatError renders a CLIError for the terminal: the categorized message,
// the correct usage when one is attached, and the remediation steps.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		errorLabel("Error"), categoryLabel(err.Category.String()), errorMsg(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", usageLabel("Usage:"), usageText(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", fixLabel("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", bullet("•"), step)
		}
	}
	return sb.String()
}

// PrintError prints a formatted CLIError to stderr. Inside a GitHub Actions
// job it also emits an error annotation so the failure surfaces on the run
// summary instead of only in the raw log.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
	if err != nil && os.Getenv("GITHUB_ACTIONS") == "true" {
		fmt.Fprintf(os.Stderr, "::error title=changelog-ci %s::%s\n",
			err.Category.String(), annotationSafe(err.Message))
	}
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// PrintSimpleError prints a plain error to stderr in the structured format,
// tagged with the given category.
func PrintSimpleError(err error, category ErrorCategory) {
	if err == nil {
		return
	}
	PrintError(&CLIError{Category: category, Message: err.Error()})
}

// annotationSafe escapes the characters the Actions workflow command syntax
// treats specially.
func annotationSafe(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return r.Replace(s)
}
