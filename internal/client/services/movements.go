package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/chewallet/internal/client/client"
	"github.com/dmitrijs2005/chewallet/internal/client/models"
	"github.com/dmitrijs2005/chewallet/internal/common"
	"github.com/dmitrijs2005/chewallet/internal/logging"
)

// PageState is what the movements screen renders. Page is 1-based; Meta
// is nil until a page loaded successfully.
type PageState struct {
	Page    int
	Items   models.TransactionList
	Meta    *models.PageMeta
	Loading bool
	Err     string
}

// CanPrev reports whether "previous" is enabled. The backend's first flag
// wins over the local page number.
func (s PageState) CanPrev() bool {
	return s.Meta != nil && s.Page > 1 && !s.Meta.First
}

// CanNext reports whether "next" is enabled. The backend's last flag wins
// over a possibly stale totalPages.
func (s PageState) CanNext() bool {
	return s.Meta != nil && !s.Meta.Last && s.Page < s.Meta.TotalPages
}

// Paginator pages through the transaction history.
type Paginator interface {
	Load(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	GoTo(ctx context.Context, page int) error
	State() PageState
	Reset()
}

type paginator struct {
	client client.Client
	size   int
	log    logging.Logger

	loading atomic.Bool

	mu    sync.Mutex
	state PageState
}

// NewPaginator returns a paginator on page 1. size is sent as the page
// size and used when the backend omits it.
func NewPaginator(c client.Client, size int, log logging.Logger) Paginator {
	if size <= 0 {
		size = 10
	}
	if log == nil {
		log = logging.Nop()
	}
	return &paginator{
		client: c,
		size:   size,
		log:    log.With("component", "movements"),
		state:  PageState{Page: 1},
	}
}

func (p *paginator) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.state
	if p.state.Meta != nil {
		m := *p.state.Meta
		out.Meta = &m
	}
	return out
}

func (p *paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = PageState{Page: 1}
}

func (p *paginator) Load(ctx context.Context) error {
	if !p.loading.CompareAndSwap(false, true) {
		return ErrLoadInProgress
	}
	defer p.loading.Store(false)

	p.mu.Lock()
	page := p.state.Page
	p.state.Loading = true
	p.state.Err = ""
	p.mu.Unlock()

	body, err := p.client.Transactions(ctx, page-1, p.size)
	if err != nil {
		err = asPartial("list transactions", err)
		p.clear(err)
		return err
	}

	decoded, err := models.DecodePage(body, p.size)
	if err != nil {
		err = &common.TransportError{Op: "decode transactions", Err: err}
		p.clear(err)
		return err
	}

	p.mu.Lock()
	p.state.Items = decoded.Items
	p.state.Meta = &decoded.Meta
	p.state.Loading = false
	p.mu.Unlock()

	p.log.Debug(ctx, "page loaded", "page", page, "items", len(decoded.Items), "total_pages", decoded.Meta.TotalPages)
	return nil
}

func (p *paginator) clear(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Items = nil
	p.state.Meta = nil
	p.state.Loading = false
	p.state.Err = err.Error()
}

func (p *paginator) Next(ctx context.Context) error {
	if p.loading.Load() {
		return ErrLoadInProgress
	}
	p.mu.Lock()
	if !p.state.CanNext() {
		p.mu.Unlock()
		return ErrNoNextPage
	}
	p.state.Page++
	p.mu.Unlock()
	return p.Load(ctx)
}

func (p *paginator) Prev(ctx context.Context) error {
	if p.loading.Load() {
		return ErrLoadInProgress
	}
	p.mu.Lock()
	if !p.state.CanPrev() {
		p.mu.Unlock()
		return ErrNoPrevPage
	}
	p.state.Page--
	p.mu.Unlock()
	return p.Load(ctx)
}

func (p *paginator) GoTo(ctx context.Context, page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	if p.loading.Load() {
		return ErrLoadInProgress
	}
	p.mu.Lock()
	p.state.Page = page
	p.mu.Unlock()
	return p.Load(ctx)
}
