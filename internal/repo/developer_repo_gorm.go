package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"developer-directory/internal/domain"
	"developer-directory/internal/feature/developer"
)

// 排序字段 → 列名（白名单，杜绝拼接注入）
var sortColumns = map[domain.SortField]string{
	domain.SortCreatedAt:   "created_at",
	domain.SortUpdatedAt:   "updated_at",
	domain.SortName:        "name",
	domain.SortRole:        "role",
	domain.SortExperience:  "experience",
	domain.SortJoiningDate: "joining_date",
}

// name_lower 列写入时已按 Unicode 转小写；SQLite 的 LOWER() 只处理 ASCII，不能在查询侧转换
const searchClause = "(developers.name_lower LIKE ? ESCAPE '!' OR EXISTS (" +
	"SELECT 1 FROM developer_techs t WHERE t.developer_id = developers.id AND t.name_lower LIKE ? ESCAPE '!'))"

type DeveloperRepo struct{ db *gorm.DB }

func NewDeveloperRepo(db *gorm.DB) *DeveloperRepo { return &DeveloperRepo{db: db} }

func preloadTechs(db *gorm.DB) *gorm.DB {
	return db.Preload("Techs", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") })
}

// likePattern 子串匹配，转义 LIKE 通配符
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func (r *DeveloperRepo) List(ctx context.Context, f domain.DeveloperFilter) ([]domain.Developer, int64, error) {
	q := r.db.WithContext(ctx).Model(&developer.DeveloperModel{})
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where(searchClause, like, like)
	}
	if f.Role != "" {
		q = q.Where("developers.role = ?", string(f.Role))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[domain.SortCreatedAt]
	}
	list := preloadTechs(q).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "developers", Name: col}, Desc: f.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "developers", Name: "id"}, Desc: f.Desc})
	if f.Limit > 0 {
		list = list.Offset(f.Offset).Limit(f.Limit)
	}

	var ms []developer.DeveloperModel
	if err := list.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Developer, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}

func (r *DeveloperRepo) FindByID(ctx context.Context, id string) (*domain.Developer, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *DeveloperRepo) find(tx *gorm.DB, id string) (*domain.Developer, error) {
	var m developer.DeveloperModel
	err := preloadTechs(tx).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := m.ToDomain()
	return &d, nil
}

// Create 连同 techStack 一并写入（gorm 关联自动建子表记录）
func (r *DeveloperRepo) Create(ctx context.Context, d *domain.Developer) error {
	m := developer.FromDomain(d)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	d.CreatedAt, d.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

// Update 全量替换标量字段与 techStack；JoiningDate 为零值时保留原值
func (r *DeveloperRepo) Update(ctx context.Context, d *domain.Developer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists developer.DeveloperModel
		err := tx.Select("id").Where("id = ?", d.ID).Take(&exists).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		cols := []string{"name", "name_lower", "role", "experience", "description", "photo", "updated_at"}
		if !d.JoiningDate.IsZero() {
			cols = append(cols, "joining_date")
		}
		m := developer.FromDomain(d)
		m.Techs = nil
		m.UpdatedAt = time.Now()
		if err := tx.Model(&developer.DeveloperModel{ID: d.ID}).Select(cols).Updates(&m).Error; err != nil {
			return err
		}
		if err := tx.Where("developer_id = ?", d.ID).Delete(&developer.TechModel{}).Error; err != nil {
			return err
		}
		if techs := developer.TechModels(d.ID, d.TechStack); len(techs) > 0 {
			if err := tx.Create(&techs).Error; err != nil {
				return err
			}
		}

		fresh, err := r.find(tx, d.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domain.ErrNotFound
		}
		*d = *fresh
		return nil
	})
}

func (r *DeveloperRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&developer.DeveloperModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Where("developer_id = ?", id).Delete(&developer.TechModel{}).Error
	})
}
