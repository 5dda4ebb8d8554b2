package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hance08/txgate/internal/constants"
)

// ValidateName checks a requester or user name. Names appear in URL paths and
// in sequence scoping, so path separators and control characters are refused.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("name can't be empty")
	}

	if len(name) > constants.MaxNameLen {
		return fmt.Errorf("name too long (max %d characters)", constants.MaxNameLen)
	}

	if strings.ContainsAny(name, `/\?#`) {
		return fmt.Errorf("name cannot contain '/', '\\', '?' or '#'")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("name cannot contain control characters")
		}
	}
	return nil
}
