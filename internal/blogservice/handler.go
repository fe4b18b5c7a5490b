package blogservice

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sushihentaime/caskblog/internal/common"
)

// NewBlogService wires the service. A nil cache disables caching and a nil producer disables events.
func NewBlogService(db Querier, c *common.Cache, mb common.MessageProducer, secret *UploadSecret, logger *slog.Logger) *BlogService {
	if mb == nil {
		mb = common.NoopBroker{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BlogService{
		m:      newBlogModel(db),
		c:      c,
		mb:     mb,
		secret: secret,
		logger: logger,
	}
}

// GetOutlines returns a page of outlines matching the filter. Limit and offset are clamped.
func (s *BlogService) GetOutlines(ctx context.Context, f ListFilter) ([]Outline, error) {
	f = f.normalize()

	key := common.CacheKeyOutlines(f.Status, f.Search, f.Limit, f.Offset)
	var gen uint64
	if s.c != nil {
		if cached, ok := s.c.Get(key); ok {
			return cached.([]Outline), nil
		}
		gen = s.c.Generation()
	}

	outlines, err := s.m.getOutlines(ctx, f)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.SetIfCurrent(key, outlines, gen)
	}

	return outlines, nil
}

// GetBlogBySlug returns the full post with the given slug.
func (s *BlogService) GetBlogBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	if slug == "" {
		return nil, common.ErrRecordNotFound
	}

	key := common.CacheKeyBlogBySlug(slug)
	var gen uint64
	if s.c != nil {
		if cached, ok := s.c.Get(key); ok {
			return cached.(*BlogPost), nil
		}
		gen = s.c.Generation()
	}

	blog, err := s.m.getBlogBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.SetIfCurrent(key, blog, gen)
	}

	return blog, nil
}

// CreateBlog inserts a new post. The upload password must match.
func (s *BlogService) CreateBlog(ctx context.Context, in *PostInput) (*BlogPost, error) {
	if err := s.secret.authorize(in.UploadPassword); err != nil {
		return nil, err
	}

	values, err := in.createAssignments()
	if err != nil {
		return nil, err
	}

	blog, err := s.m.insert(ctx, values)
	if err != nil {
		s.logDuplicateSlug(err, in.Slug)
		return nil, err
	}

	s.invalidate()
	s.publish(ctx, common.BlogCreatedKey, blog)

	return blog, nil
}

// UpdateBlog changes only the fields present in the input. The upload password must match.
func (s *BlogService) UpdateBlog(ctx context.Context, id int64, in *PostInput) (*BlogPost, error) {
	if err := s.secret.authorize(in.UploadPassword); err != nil {
		return nil, err
	}

	v := common.NewValidator()
	validateID(v, id)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	values, err := in.updateAssignments()
	if err != nil {
		return nil, err
	}

	blog, err := s.m.updateBlog(ctx, id, values)
	if err != nil {
		s.logDuplicateSlug(err, in.Slug)
		return nil, err
	}

	s.invalidate()
	s.publish(ctx, common.BlogUpdatedKey, blog)

	return blog, nil
}

// Ping reports whether the database is reachable.
func (s *BlogService) Ping(ctx context.Context) error {
	p, ok := s.m.db.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return p.Ping(ctx)
}

// slugConstraint is the unique constraint on app.blogs.slug.
const slugConstraint = "blogs_slug_key"

func (s *BlogService) logDuplicateSlug(err error, slug Optional[string]) {
	if slug.Value != nil && common.IsUniqueViolation(err, slugConstraint) {
		s.logger.Warn("slug already exists", slog.String("slug", *slug.Value))
	}
}

func (s *BlogService) invalidate() {
	if s.c != nil {
		s.c.Flush()
	}
}

// publish announces a mutation. The row is already stored, so failures are only logged.
func (s *BlogService) publish(ctx context.Context, key common.BindingKey, blog *BlogPost) {
	msg, err := json.Marshal(blogEvent{ID: blog.ID, Slug: blog.Slug, Title: blog.Title, Status: blog.Status})
	if err != nil {
		s.logger.Error("could not marshal blog event", slog.String("error", err.Error()))
		return
	}

	err = s.mb.Publish(ctx, msg, key, common.BlogExchange)
	if err != nil {
		s.logger.Error("could not publish blog event", slog.String("key", string(key)), slog.Int64("id", blog.ID), slog.String("error", err.Error()))
	}
}
