package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	ErrEntryTypeTitleEmpty   = errors.New("entry type title cannot be empty")
	ErrEntryTypeTitleTooLong = errors.New("entry type title is too long (max 100 chars)")
	ErrEntryTypeInvalidSlug  = errors.New("entry type title must contain at least one letter or digit")
	ErrEntryTypeInvalidUser  = errors.New("invalid user id")
	ErrInvalidColor          = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidPointStep      = errors.New("point step must be greater than zero")
	ErrInvalidDefaultPoints  = errors.New("default points cannot be negative")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

const (
	MaxTitleLen       = 100
	DefaultThemeLight = "#A7F3D0"
	DefaultThemeDark  = "#047857"
)

type EntryType struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id,omitempty" db:"user_id"`
	Title         string    `json:"title" db:"title"`
	Routine       Routine   `json:"routine" db:"routine"`
	DefaultPoints Points    `json:"defaultPoints" db:"default_points"`
	PointStep     Points    `json:"pointStep" db:"point_step"`
	ThemeColors   [2]string `json:"themeColors" db:"-"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Slugify turns a title into the id of its entry type: lowercase letters and
// digits, every other run of characters collapsed into a single dash.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

func validateEntryType(title string, routine Routine, defaultPoints, step Points, colors [2]string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEntryTypeTitleEmpty
	}
	if len(trimmed) > MaxTitleLen {
		return "", ErrEntryTypeTitleTooLong
	}
	if !routine.Valid() {
		return "", ErrInvalidRoutine
	}
	if defaultPoints < 0 {
		return "", ErrInvalidDefaultPoints
	}
	if step <= 0 {
		return "", ErrInvalidPointStep
	}
	for _, c := range colors {
		if c != "" && !colorRegex.MatchString(c) {
			return "", ErrInvalidColor
		}
	}

	slug := Slugify(trimmed)
	if slug == "" {
		return "", ErrEntryTypeInvalidSlug
	}
	return slug, nil
}

func normalizeColors(colors [2]string) [2]string {
	if colors[0] == "" {
		colors[0] = DefaultThemeLight
	}
	if colors[1] == "" {
		colors[1] = DefaultThemeDark
	}
	return colors
}

func NewEntryType(userID, title string, routine Routine, defaultPoints, step Points, colors [2]string) (*EntryType, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEntryTypeInvalidUser
	}

	slug, err := validateEntryType(title, routine, defaultPoints, step, colors)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &EntryType{
		ID:            slug,
		UserID:        userID,
		Title:         strings.TrimSpace(title),
		Routine:       routine,
		DefaultPoints: defaultPoints,
		PointStep:     step,
		ThemeColors:   normalizeColors(colors),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Update replaces the editable fields. A title change also changes the id,
// and it returns true so the caller can move the instances referencing the
// old id.
func (t *EntryType) Update(title string, routine Routine, defaultPoints, step Points, colors [2]string) (bool, error) {
	slug, err := validateEntryType(title, routine, defaultPoints, step, colors)
	if err != nil {
		return false, err
	}

	renamed := slug != t.ID

	t.ID = slug
	t.Title = strings.TrimSpace(title)
	t.Routine = routine
	t.DefaultPoints = defaultPoints
	t.PointStep = step
	t.ThemeColors = normalizeColors(colors)
	t.UpdatedAt = time.Now().UTC()

	return renamed, nil
}
