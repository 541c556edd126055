package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivanoskov/bc-money/internal/logging"
	"github.com/ivanoskov/bc-money/internal/model"
	"github.com/ivanoskov/bc-money/internal/repository"
)

const (
	defaultFetchTimeout  = 10 * time.Second
	defaultTopCategories = 6
	defaultCurrency      = "USD"
)

// FinanceService загружает данные пользователя и передает их в пакет metrics
type FinanceService struct {
	repo          repository.Repository
	log           *logrus.Logger
	fetchTimeout  time.Duration
	topCategories int
	currency      string
	now           func() time.Time
}

type Option func(*FinanceService)

// WithFetchTimeout ограничивает ожидание каждой загрузки из хранилища
func WithFetchTimeout(d time.Duration) Option {
	return func(s *FinanceService) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithTopCategories(n int) Option {
	return func(s *FinanceService) {
		if n > 0 {
			s.topCategories = n
		}
	}
}

// WithCurrency валюта по умолчанию, если в профиле она не указана
func WithCurrency(code string) Option {
	return func(s *FinanceService) {
		if code != "" {
			s.currency = code
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) {
		s.now = now
	}
}

// NewFinanceService создает новый экземпляр FinanceService
func NewFinanceService(repo repository.Repository, log *logrus.Logger, opts ...Option) *FinanceService {
	s := &FinanceService{
		repo:          repo,
		log:           log,
		fetchTimeout:  defaultFetchTimeout,
		topCategories: defaultTopCategories,
		currency:      defaultCurrency,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FinanceService) today() model.Date {
	return model.DateOf(s.now())
}

// loader выполняет загрузки одной операции и запоминает коллекции,
// которые пришлось заменить пустыми
type loader struct {
	s        *FinanceService
	logData  *logging.LogData
	mu       sync.Mutex
	degraded []string
}

func (s *FinanceService) newLoader(operation string, userID string) *loader {
	logData := logging.NewLogData(s.log)
	logData.AddData("operation", operation)
	logData.AddData("user_id", userID)
	return &loader{s: s, logData: logData}
}

func (l *loader) markDegraded(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.degraded = append(l.degraded, name)
}

func (l *loader) Degraded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.degraded))
	copy(out, l.degraded)
	sort.Strings(out)
	return out
}

// fetch выполняет загрузку с ограничением по времени. Ошибка или таймаут
// превращаются в пустой результат, чтобы остальные показатели все равно посчитались.
// Ошибка возвращается только при отмене родительского контекста.
// Клиент хранилища не умеет прерывать запрос, поэтому опоздавший результат просто отбрасывается.
func fetch[T any](parent context.Context, l *loader, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	stop := l.logData.AddTiming(name)
	defer stop()

	ctx, cancel := context.WithTimeout(parent, l.s.fetchTimeout)
	defer cancel()

	type result struct {
		items []T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		items, err := load(ctx)
		done <- result{items: items, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = fmt.Errorf("%s: %w", name, ctx.Err())
	}

	if res.err == nil {
		l.logData.AddData(name+"_count", len(res.items))
		return res.items, nil
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	l.s.log.WithError(res.err).WithField("collection", name).Warn("Fetch.Degraded")
	l.markDegraded(name)
	return []T{}, nil
}

// fetchOne загружает одну запись с теми же правилами; при сбое возвращает nil
func fetchOne[T any](parent context.Context, l *loader, name string, load func(context.Context) (*T, error)) (*T, error) {
	items, err := fetch(parent, l, name, func(ctx context.Context) ([]T, error) {
		item, err := load(ctx)
		if err != nil || item == nil {
			return nil, err
		}
		return []T{*item}, nil
	})
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}
