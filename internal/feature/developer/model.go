package developer

import (
	"strings"
	"time"

	"developer-directory/internal/domain"
)

type DeveloperModel struct {
	ID          string  `gorm:"primaryKey;type:varchar(32)"`
	Name        string  `gorm:"size:255;not null"`
	NameLower   string  `gorm:"size:255;not null;default:''"` // 搜索用，写入时由 Go 转小写
	Role        string  `gorm:"size:16;not null;index"`
	Experience  float64 `gorm:"not null"`
	Description string  `gorm:"size:1000;not null"`
	Photo       string  `gorm:"not null"`
	JoiningDate time.Time
	Techs       []TechModel `gorm:"foreignKey:DeveloperID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DeveloperModel) TableName() string { return "developers" }

// TechModel techStack 单项；Position 保持顺序
type TechModel struct {
	ID          uint   `gorm:"primaryKey"`
	DeveloperID string `gorm:"type:varchar(32);not null;index"`
	Position    int    `gorm:"not null"`
	Name        string `gorm:"size:255;not null"`
	NameLower   string `gorm:"size:255;not null;default:''"`
}

func (TechModel) TableName() string { return "developer_techs" }

// Models AutoMigrate 用
func Models() []any { return []any{&DeveloperModel{}, &TechModel{}} }

func TechModels(id string, stack []string) []TechModel {
	out := make([]TechModel, 0, len(stack))
	for i, name := range stack {
		out = append(out, TechModel{DeveloperID: id, Position: i, Name: name, NameLower: strings.ToLower(name)})
	}
	return out
}

func (m DeveloperModel) ToDomain() domain.Developer {
	stack := make([]string, 0, len(m.Techs))
	for _, t := range m.Techs {
		stack = append(stack, t.Name)
	}
	return domain.Developer{
		ID:          m.ID,
		Name:        m.Name,
		Role:        domain.Role(m.Role),
		TechStack:   stack,
		Experience:  m.Experience,
		Description: m.Description,
		Photo:       m.Photo,
		JoiningDate: m.JoiningDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDomain(d *domain.Developer) DeveloperModel {
	return DeveloperModel{
		ID:          d.ID,
		Name:        d.Name,
		NameLower:   strings.ToLower(d.Name),
		Role:        string(d.Role),
		Experience:  d.Experience,
		Description: d.Description,
		Photo:       d.Photo,
		JoiningDate: d.JoiningDate,
		Techs:       TechModels(d.ID, d.TechStack),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
