package usecase

import (
	"sync"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/google/uuid"
)

// QueryToken - токен запроса к поверхности. Seq монотонно растёт и не повторяется
// даже после Drop и повторного создания поверхности.
type QueryToken struct {
	Surface string
	Seq     uint64
	ID      string
}

type surfaceState struct {
	latest   uint64
	visible  []domain.StationRecord
	hasValue bool
}

// DefaultMaxSurfaces - предел числа поверхностей в StationFeed
const DefaultMaxSurfaces = 1024

// StationFeed хранит видимый список станций для каждой поверхности (карта, список)
// и отбрасывает устаревшие ответы: применяется только результат самого нового запроса.
// При достижении предела новая поверхность вытесняет ту, чей последний запрос самый старый.
type StationFeed struct {
	mu          sync.Mutex
	seq         uint64
	maxSurfaces int
	surfaces    map[string]*surfaceState
}

func NewStationFeed() *StationFeed {
	return NewBoundedStationFeed(DefaultMaxSurfaces)
}

// NewBoundedStationFeed создаёт ленту не более чем с limit поверхностями (limit <= 0 - по умолчанию)
func NewBoundedStationFeed(limit int) *StationFeed {
	if limit <= 0 {
		limit = DefaultMaxSurfaces
	}
	return &StationFeed{maxSurfaces: limit, surfaces: make(map[string]*surfaceState)}
}

// Begin выдаёт новый токен, делая все предыдущие токены поверхности устаревшими
func (f *StationFeed) Begin(surface string) QueryToken {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.surfaces[surface]
	if !ok {
		if len(f.surfaces) >= f.maxSurfaces {
			f.evictOldest()
		}
		st = &surfaceState{}
		f.surfaces[surface] = st
	}
	f.seq++
	st.latest = f.seq

	return QueryToken{Surface: surface, Seq: st.latest, ID: uuid.NewString()}
}

// Apply применяет результат, если токен всё ещё самый новый. Возвращает false для устаревших ответов
// и для поверхностей, удалённых через Drop.
func (f *StationFeed) Apply(token QueryToken, stations []domain.StationRecord) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.surfaces[token.Surface]
	if !ok || st.latest != token.Seq {
		return false
	}

	visible := make([]domain.StationRecord, len(stations))
	copy(visible, stations)
	st.visible = visible
	st.hasValue = true
	return true
}

// IsCurrent проверяет, не устарел ли токен
func (f *StationFeed) IsCurrent(token QueryToken) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.surfaces[token.Surface]
	return ok && st.latest == token.Seq
}

// Visible возвращает копию видимого списка поверхности
func (f *StationFeed) Visible(surface string) ([]domain.StationRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.surfaces[surface]
	if !ok || !st.hasValue {
		return nil, false
	}

	out := make([]domain.StationRecord, len(st.visible))
	copy(out, st.visible)
	return out, true
}

// Drop удаляет поверхность; все выданные для неё токены становятся устаревшими
func (f *StationFeed) Drop(surface string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.surfaces[surface]; !ok {
		return false
	}
	delete(f.surfaces, surface)
	return true
}

// evictOldest удаляет поверхность с самым старым последним запросом. Вызывается под f.mu.
func (f *StationFeed) evictOldest() {
	var (
		oldest    string
		oldestSeq uint64
		found     bool
	)
	for name, st := range f.surfaces {
		if !found || st.latest < oldestSeq {
			oldest, oldestSeq, found = name, st.latest, true
		}
	}
	if found {
		delete(f.surfaces, oldest)
	}
}

// Len возвращает число поверхностей
func (f *StationFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.surfaces)
}
