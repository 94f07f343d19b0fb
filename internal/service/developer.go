package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"developer-directory/internal/apperr"
	"developer-directory/internal/core/auth"
	"developer-directory/internal/core/metrics"
	"developer-directory/internal/domain"
	"developer-directory/pkg/utils"
)

const (
	msgDeveloperNotFound = "Developer not found"
	msgInvalidID         = "Invalid developer id"
)

type DeveloperService struct {
	repo domain.DeveloperRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewDeveloperService(repo domain.DeveloperRepository, l *zap.Logger) *DeveloperService {
	return &DeveloperService{repo: repo, log: l, now: time.Now}
}

func (s *DeveloperService) List(ctx context.Context, q domain.ListQuery) (*domain.DeveloperPage, error) {
	f, page, errs := q.Filter()
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}
	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, s.internal("list developers failed", err)
	}
	return &domain.DeveloperPage{
		Data:       list,
		Total:      total,
		Page:       page,
		TotalPages: domain.TotalPages(total, f.Limit),
	}, nil
}

func (s *DeveloperService) Get(ctx context.Context, id string) (*domain.Developer, error) {
	if !utils.IsID(id) {
		return nil, apperr.BadRequest(msgInvalidID)
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.internal("get developer failed", err)
	}
	if d == nil {
		return nil, apperr.NotFound(msgDeveloperNotFound)
	}
	return d, nil
}

func (s *DeveloperService) Create(ctx context.Context, in domain.DeveloperInput) (*domain.Developer, error) {
	draft, errs := domain.ValidateDeveloper(in)
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}
	d := &domain.Developer{ID: utils.NewID()}
	apply(d, draft)
	if d.JoiningDate.IsZero() {
		d.JoiningDate = s.now().UTC()
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, s.internal("create developer failed", err)
	}
	metrics.DeveloperWrites.WithLabelValues("create").Inc()
	s.written(ctx, "create", d.ID)
	return d, nil
}

// Update 全量替换；重复同样的请求得到同样的存储状态
func (s *DeveloperService) Update(ctx context.Context, id string, in domain.DeveloperInput) (*domain.Developer, error) {
	if !utils.IsID(id) {
		return nil, apperr.BadRequest(msgInvalidID)
	}
	draft, errs := domain.ValidateDeveloper(in)
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}
	d := &domain.Developer{ID: id}
	apply(d, draft)
	if err := s.repo.Update(ctx, d); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound(msgDeveloperNotFound)
		}
		return nil, s.internal("update developer failed", err)
	}
	metrics.DeveloperWrites.WithLabelValues("update").Inc()
	s.written(ctx, "update", id)
	return d, nil
}

func (s *DeveloperService) Delete(ctx context.Context, id string) error {
	if !utils.IsID(id) {
		return apperr.BadRequest(msgInvalidID)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound(msgDeveloperNotFound)
		}
		return s.internal("delete developer failed", err)
	}
	metrics.DeveloperWrites.WithLabelValues("delete").Inc()
	s.written(ctx, "delete", id)
	return nil
}

func apply(d *domain.Developer, draft domain.DeveloperDraft) {
	d.Name = draft.Name
	d.Role = draft.Role
	d.TechStack = draft.TechStack
	d.Experience = draft.Experience
	d.Description = draft.Description
	d.Photo = draft.Photo
	if draft.JoiningDate != nil {
		d.JoiningDate = *draft.JoiningDate
	}
}

// written 记录写操作及操作者（未鉴权挂载时 by 为空）
func (s *DeveloperService) written(ctx context.Context, op, id string) {
	actor, _ := auth.IdentityFrom(ctx)
	s.log.Info("developer "+op, zap.String("id", id), zap.String("by", actor.ID))
}

func (s *DeveloperService) internal(msg string, err error) error {
	s.log.Error(msg, zap.Error(err))
	return apperr.Internal(msg, err)
}
