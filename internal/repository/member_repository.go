package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lsx-portal/config"
	"lsx-portal/internal/notion"
)

var ErrMemberNotFound = errors.New("member not found")

type MemberRepository struct {
	store  Store
	dbID   string
	fields config.MemberSchema
	logger *zap.Logger
}

func NewMemberRepository(store Store, dbID string, fields config.MemberSchema, logger *zap.Logger) *MemberRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberRepository{store: store, dbID: dbID, fields: fields, logger: logger}
}

func (r *MemberRepository) Fields() config.MemberSchema { return r.fields }

// All walks the whole member collection.
func (r *MemberRepository) All(ctx context.Context) ([]notion.Page, bool) {
	return WalkDatabase(ctx, r.store, r.dbID, notion.QueryRequest{}, r.logger)
}

func (r *MemberRepository) usernameFilter(username string) notion.Filter {
	switch r.fields.UsernameType {
	case "rich_text", "title":
		return notion.PropertyFilter(r.fields.Username, r.fields.UsernameType, "equals", username)
	default:
		return notion.FormulaFilter(r.fields.Username, "string", "equals", username)
	}
}

// FindByUsername returns ErrMemberNotFound when no document matches.
func (r *MemberRepository) FindByUsername(ctx context.Context, username string) (*notion.Page, error) {
	return r.findOne(ctx, r.usernameFilter(username))
}

func (r *MemberRepository) FindByDisplayName(ctx context.Context, name string) (*notion.Page, error) {
	return r.findOne(ctx, notion.PropertyFilter(r.fields.Name, "title", "equals", name))
}

func (r *MemberRepository) findOne(ctx context.Context, filter notion.Filter) (*notion.Page, error) {
	resp, err := r.store.QueryDatabase(ctx, r.dbID, notion.QueryRequest{Filter: filter, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrMemberNotFound
	}
	return &resp.Results[0], nil
}

func (r *MemberRepository) Get(ctx context.Context, id string) (*notion.Page, error) {
	page, err := r.store.GetPage(ctx, id)
	if errors.Is(err, notion.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	return page, err
}

// MemberUpdate holds the properties to patch; nil fields are left alone.
type MemberUpdate struct {
	DisplayName  *string
	PasswordHash *string
	PhotoURL     *string
}

func (u MemberUpdate) Empty() bool {
	return u.DisplayName == nil && u.PasswordHash == nil && u.PhotoURL == nil
}

// Update patches the member. It makes no call and returns a nil page when
// the update is empty.
func (r *MemberRepository) Update(ctx context.Context, id string, u MemberUpdate) (*notion.Page, error) {
	if u.Empty() {
		return nil, nil
	}
	props := map[string]any{}
	if u.DisplayName != nil {
		props[r.fields.Name] = notion.TitleValue(*u.DisplayName)
	}
	if u.PasswordHash != nil {
		props[r.fields.Password] = notion.RichTextValue(*u.PasswordHash)
	}
	if u.PhotoURL != nil {
		props[r.fields.Photo] = notion.ExternalFileValue("pic", *u.PhotoURL)
	}

	page, err := r.store.UpdatePage(ctx, id, props)
	if errors.Is(err, notion.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	return page, err
}

type NewMember struct {
	DisplayName  string
	Nickname     string
	PasswordHash string
	Birthday     *time.Time
}

func (r *MemberRepository) Create(ctx context.Context, m NewMember) (*notion.Page, error) {
	props := map[string]any{
		r.fields.Name:     notion.TitleValue(m.DisplayName),
		r.fields.Password: notion.RichTextValue(m.PasswordHash),
	}
	if m.Nickname != "" {
		props[r.fields.Nickname] = notion.RichTextValue(m.Nickname)
	}
	if m.Birthday != nil {
		props[r.fields.Birthday] = notion.DateOnlyValue(*m.Birthday)
	}
	return r.store.CreatePage(ctx, r.dbID, props)
}
