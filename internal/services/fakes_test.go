package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lsx-portal/config"
	"lsx-portal/internal/models"
	"lsx-portal/internal/notion"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
)

var schema = config.DefaultSchema()

var bangkok = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		panic(err)
	}
	return loc
}()

// memStore is an in-memory document store that understands the equality
// filters the repositories send.
type memStore struct {
	mu        sync.Mutex
	dbs       map[string][]*notion.Page
	queries   int
	failQuery error
	failWrite error
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{dbs: map[string][]*notion.Page{}}
}

func (m *memStore) add(dbID string, page notion.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbs[dbID] = append(m.dbs[dbID], &page)
}

func (m *memStore) QueryDatabase(_ context.Context, dbID string, q notion.QueryRequest) (*notion.QueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.failQuery != nil {
		return nil, m.failQuery
	}
	resp := &notion.QueryResponse{Results: []notion.Page{}}
	for _, p := range m.dbs[dbID] {
		if matches(*p, q.Filter) {
			resp.Results = append(resp.Results, *p)
		}
	}
	return resp, nil
}

func matches(page notion.Page, f notion.Filter) bool {
	prop, ok := f["property"].(string)
	if !ok {
		return true
	}
	for _, kind := range []string{"title", "rich_text"} {
		if cond, ok := f[kind].(map[string]any); ok {
			if want, ok := cond["equals"].(string); ok {
				return page.Properties.Text(prop, "") == want
			}
		}
	}
	if formula, ok := f["formula"].(map[string]any); ok {
		if cond, ok := formula["string"].(map[string]any); ok {
			if want, ok := cond["equals"].(string); ok {
				return page.Properties.Text(prop, "") == want
			}
		}
	}
	return true
}

func (m *memStore) find(id string) *notion.Page {
	for _, pages := range m.dbs {
		for _, p := range pages {
			if p.ID == id {
				return p
			}
		}
	}
	return nil
}

func (m *memStore) GetPage(_ context.Context, id string) (*notion.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQuery != nil {
		return nil, m.failQuery
	}
	p := m.find(id)
	if p == nil {
		return nil, fmt.Errorf("get_page: %w", notion.ErrNotFound)
	}
	out := *p
	return &out, nil
}

func (m *memStore) UpdatePage(_ context.Context, id string, props map[string]any) (*notion.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	p := m.find(id)
	if p == nil {
		return nil, fmt.Errorf("update_page: %w", notion.ErrNotFound)
	}
	bag := notion.Properties{}
	for k, v := range p.Properties {
		bag[k] = v
	}
	for k, v := range props {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		bag[k] = raw
	}
	p.Properties = bag
	out := *p
	return &out, nil
}

func (m *memStore) CreatePage(_ context.Context, dbID string, props map[string]any) (*notion.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	m.nextID++
	page := notion.Page{ID: fmt.Sprintf("new-%d", m.nextID), Properties: notion.Properties{}}
	for k, v := range props {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		page.Properties[k] = raw
	}
	m.dbs[dbID] = append(m.dbs[dbID], &page)
	out := page
	return &out, nil
}

func propsOf(t *testing.T, props map[string]any) notion.Properties {
	t.Helper()
	bag := notion.Properties{}
	for k, v := range props {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		bag[k] = raw
	}
	return bag
}

type member struct {
	id       string
	name     string
	username string
	password string
	birthday string
	rank     string
	score    float64
	junior   float64
	group    string
	attended float64
}

func (mb member) page(t *testing.T) notion.Page {
	f := schema.Member
	props := map[string]any{
		f.Name:           notion.TitleValue(mb.name),
		f.Username:       map[string]any{"type": "formula", "formula": map[string]any{"type": "string", "string": mb.username}},
		f.Password:       notion.RichTextValue(mb.password),
		f.OverallScore:   map[string]any{"type": "number", "number": mb.score},
		f.JuniorScore:    map[string]any{"type": "number", "number": mb.junior},
		f.OverallRank:    map[string]any{"type": "formula", "formula": map[string]any{"type": "string", "string": mb.rank}},
		f.RankGroup:      map[string]any{"type": "select", "select": map[string]any{"name": mb.group}},
		f.EventsAttended: map[string]any{"type": "number", "number": mb.attended},
	}
	if mb.birthday != "" {
		props[f.Birthday] = map[string]any{"type": "date", "date": map[string]any{"start": mb.birthday}}
	}
	return notion.Page{ID: mb.id, Properties: propsOf(t, props)}
}

func event(t *testing.T, id, name, start, end, photo string) notion.Page {
	f := schema.Event
	date := map[string]any{"start": start}
	if end != "" {
		date["end"] = end
	}
	props := map[string]any{
		f.Name: notion.TitleValue(name),
		f.Date: map[string]any{"type": "date", "date": date},
	}
	if photo != "" {
		props[f.Photo] = notion.ExternalFileValue("p", photo)
	}
	return notion.Page{ID: id, Properties: propsOf(t, props)}
}

type fakeSnapshots struct {
	mu    sync.Mutex
	saved []models.RankingSnapshot
}

func (f *fakeSnapshots) Save(_ context.Context, s models.RankingSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSnapshots) Recent(_ context.Context, limit int64) ([]models.RankingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := min(int(limit), len(f.saved))
	return f.saved[:n], nil
}

// fixture wires every service over one memStore.
type fixture struct {
	store     *memStore
	clock     ranking.Clock
	members   *repository.MemberRepository
	events    *repository.EventRepository
	snapshots *fakeSnapshots
	ranking   *RankingService
	auth      *AuthService
	profile   *ProfileService
}

func newFixture(t *testing.T, today time.Time, members ...member) *fixture {
	t.Helper()
	fx := &fixture{
		store:     newMemStore(),
		clock:     ranking.FixedClock(today),
		snapshots: &fakeSnapshots{},
	}
	for _, mb := range members {
		fx.store.add("members", mb.page(t))
	}
	fx.members = repository.NewMemberRepository(fx.store, "members", schema.Member, nil)
	fx.events = repository.NewEventRepository(fx.store, "events", schema.Event, nil)
	fx.ranking = NewRankingService(fx.members, fx.events, fx.snapshots, fx.clock, time.Minute, nil)
	fx.auth = NewAuthService(fx.members, fx.clock, nil)
	fx.profile = NewProfileService(fx.members, &fakeUploader{url: "https://i.ibb.co/x/new.png"}, fx.ranking, fx.clock, nil)
	return fx
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(context.Context, []byte) (string, error) {
	f.calls++
	return f.url, f.err
}

func repositoryNews(fx *fixture) *repository.NewsRepository {
	return repository.NewNewsRepository(fx.store, "news", schema.News, nil)
}
