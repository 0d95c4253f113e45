package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatible reports whether the running tool version satisfies the
// variant's requires constraint. Unversioned builds ("dev") satisfy everything.
func (v *Variant) CheckCompatible(version string) error {
	if v.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(v.Requires)
	if err != nil {
		return fmt.Errorf("variant %q: invalid requires constraint %q: %w", v.Name, v.Requires, err)
	}

	current, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		// Local builds carry no semver; don't block them.
		return nil
	}

	if ok, errs := constraint.Validate(current); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return fmt.Errorf("variant %q requires version %s: %s", v.Name, v.Requires, strings.Join(reasons, "; "))
	}
	return nil
}
