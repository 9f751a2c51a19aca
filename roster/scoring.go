package roster

import (
	"fmt"
	"slices"

	"conduct-server-go/models"
)

// ApplyTags replaces the student's behaviors with the given selection and
// recomputes the score as positives minus negatives. English aliases are
// accepted; repeated tags count once. The result lists behaviors in
// vocabulary order, so applying the same selection twice is a no-op.
func ApplyTags(s models.Student, positive, negative []string) (models.Student, error) {
	pos, err := selectBehaviors(positive, models.PositiveBehaviors)
	if err != nil {
		return s, fmt.Errorf("positive: %w", err)
	}
	neg, err := selectBehaviors(negative, models.NegativeBehaviors)
	if err != nil {
		return s, fmt.Errorf("negative: %w", err)
	}

	return models.Student{
		Name:     s.Name,
		Score:    len(pos) - len(neg),
		Positive: pos,
		Negative: neg,
	}, nil
}

func selectBehaviors(tags []string, vocabulary []string) ([]string, error) {
	selected := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		label := models.CanonicalBehavior(tag)
		if !slices.Contains(vocabulary, label) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBehavior, tag)
		}
		selected[label] = struct{}{}
	}

	out := make([]string, 0, len(selected))
	for _, label := range vocabulary {
		if _, ok := selected[label]; ok {
			out = append(out, label)
		}
	}
	return out, nil
}
