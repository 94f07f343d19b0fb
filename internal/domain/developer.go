package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

type Role string

const (
	RoleFrontend  Role = "Frontend"
	RoleBackend   Role = "Backend"
	RoleFullStack Role = "Full-Stack"
)

var Roles = []Role{RoleFrontend, RoleBackend, RoleFullStack}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

const (
	MinNameLen        = 2
	MaxNameLen        = 255 // 与列宽一致
	MaxTechLen        = 255
	MinExperience     = 0
	MaxExperience     = 50
	MaxDescriptionLen = 1000
)

type Developer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	TechStack   []string  `json:"techStack"`
	Experience  float64   `json:"experience"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	JoiningDate time.Time `json:"joiningDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON 额外输出 _id，前端按 _id 取主键
func (d Developer) MarshalJSON() ([]byte, error) {
	type alias Developer
	return json.Marshal(struct {
		LegacyID string `json:"_id"`
		alias
	}{LegacyID: d.ID, alias: alias(d)})
}

// DeveloperInput 创建/更新入参；更新为全量替换
type DeveloperInput struct {
	Name        string         `json:"name"`
	Role        string         `json:"role"`
	TechStack   TechStackInput `json:"techStack"`
	Experience  NumberInput    `json:"experience"`
	Description string         `json:"description"`
	Photo       string         `json:"photo"`
	JoiningDate DateInput      `json:"joiningDate"`
}

// DeveloperDraft 通过校验、归一化后的字段
type DeveloperDraft struct {
	Name        string
	Role        Role
	TechStack   []string
	Experience  float64
	Description string
	Photo       string
	JoiningDate *time.Time
}

// ValidateDeveloper 与持久化解耦，返回全部违规项（不是第一个）
func ValidateDeveloper(in DeveloperInput) (DeveloperDraft, []string) {
	var errs []string
	d := DeveloperDraft{
		Name:        strings.TrimSpace(in.Name),
		Role:        Role(strings.TrimSpace(in.Role)),
		Description: strings.TrimSpace(in.Description),
		Photo:       strings.TrimSpace(in.Photo),
	}

	switch n := utf8.RuneCountInString(d.Name); {
	case n < MinNameLen:
		errs = append(errs, "Name must be at least 2 characters.")
	case n > MaxNameLen:
		errs = append(errs, "Name cannot exceed 255 characters.")
	}
	if !d.Role.Valid() {
		errs = append(errs, "Role must be one of Frontend, Backend, Full-Stack.")
	}

	techs, err := NormalizeTechStack(in.TechStack)
	switch {
	case err != nil:
		errs = append(errs, err.Error()+".")
	case len(techs) == 0:
		errs = append(errs, "At least one tech is required in techStack.")
	default:
		for _, t := range techs {
			if utf8.RuneCountInString(t) > MaxTechLen {
				errs = append(errs, "Each tech in techStack cannot exceed 255 characters.")
				break
			}
		}
		d.TechStack = techs
	}

	switch exp, ok := in.Experience.Value(); {
	case in.Experience.Invalid():
		errs = append(errs, "Experience must be a number.")
	case !ok:
		errs = append(errs, "Experience is required.")
	case exp < MinExperience:
		errs = append(errs, "Experience must be a non-negative number.")
	case exp > MaxExperience:
		errs = append(errs, "Experience cannot exceed 50 years.")
	default:
		d.Experience = exp
	}

	if utf8.RuneCountInString(d.Description) > MaxDescriptionLen {
		errs = append(errs, "Description cannot exceed 1000 characters.")
	}
	if d.Photo != "" && validate.Var(d.Photo, "url") != nil {
		errs = append(errs, "Photo must be a valid URL.")
	}

	if in.JoiningDate.Invalid() {
		errs = append(errs, "Joining date is not valid.")
	} else if t, ok := in.JoiningDate.Value(); ok {
		d.JoiningDate = &t
	}
	return d, errs
}

type DeveloperRepository interface {
	List(ctx context.Context, f DeveloperFilter) ([]Developer, int64, error)
	FindByID(ctx context.Context, id string) (*Developer, error) // 不存在返回 nil, nil
	Create(ctx context.Context, d *Developer) error
	Update(ctx context.Context, d *Developer) error // 不存在返回 ErrNotFound
	Delete(ctx context.Context, id string) error    // 不存在返回 ErrNotFound
}
