package aoi

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
)

// _EventRecord 录下来的一条事件，Pos/PosFrom 是回调栈上拷出来的
type _EventRecord struct {
	id       EventID
	receiver string
	sender   string
	pos      []Coord
	posFrom  []Coord
}

func (r _EventRecord) String() string {
	if r.id == EventMove {
		return fmt.Sprintf("%s %s->%s %v from %v", r.id, r.sender, r.receiver, r.pos, r.posFrom)
	}
	return fmt.Sprintf("%s %s->%s %v", r.id, r.sender, r.receiver, r.pos)
}

type _Recorder struct {
	events []_EventRecord
}

func (r *_Recorder) callback(receiver string, sender string, event *Event) {
	rec := _EventRecord{
		id:       event.ID,
		receiver: receiver,
		sender:   sender,
		pos:      append([]Coord(nil), event.Pos...),
	}
	if event.ID == EventMove {
		rec.posFrom = append([]Coord(nil), event.PosFrom...)
	}
	r.events = append(r.events, rec)
}

func (r *_Recorder) reset() {
	r.events = r.events[:0]
}

func (r *_Recorder) count(id EventID) int {
	n := 0
	for _, e := range r.events {
		if e.id == id {
			n++
		}
	}
	return n
}

func (r *_Recorder) strings() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.String())
	}
	return out
}

func newTestGroup(maxWatchRange ...Coord) (*Group, *_Recorder) {
	g := NewGroup(maxWatchRange)
	rec := &_Recorder{}
	g.SetCallback(rec.callback)
	return g, rec
}

// mockWorld 随机世界，和 group 并行维护一份朴素状态做对照
type mockWorld struct {
	group *Group
	rec   *_Recorder

	watchTypes map[string]WatchType
	positions  map[string][]Coord
	ranges     map[string][]Coord

	width  int
	height int
	rnd    *rand.Rand
}

func newMockWorld(width, height int, seed int64) *mockWorld {
	g, rec := newTestGroup(20, 20)
	return &mockWorld{
		group:      g,
		rec:        rec,
		watchTypes: make(map[string]WatchType),
		positions:  make(map[string][]Coord),
		ranges:     make(map[string][]Coord),
		width:      width,
		height:     height,
		rnd:        rand.New(rand.NewSource(seed)),
	}
}

// 全部用整数坐标，float32 上运算无误差，朴素对照才能逐位相等
func (w *mockWorld) randPos() []Coord {
	return []Coord{Coord(w.rnd.Intn(w.width)), Coord(w.rnd.Intn(w.height))}
}

func (w *mockWorld) randRange() []Coord {
	return []Coord{Coord(1 + w.rnd.Intn(20)), Coord(1 + w.rnd.Intn(20))}
}

func (w *mockWorld) enter(watchType WatchType) string {
	key := uuid.New().String()
	pos := w.randPos()
	rng := w.randRange()

	w.group.Enter(key, pos, watchType, rng)

	w.watchTypes[key] = watchType
	w.positions[key] = pos
	w.ranges[key] = rng

	return key
}

func (w *mockWorld) leave(key string) {
	w.group.Leave(key)
	delete(w.watchTypes, key)
	delete(w.positions, key)
	delete(w.ranges, key)
}

func (w *mockWorld) move(key string, pos []Coord) {
	w.group.Move(key, pos)
	w.positions[key] = pos
}

func (w *mockWorld) keys() []string {
	keys := make([]string, 0, len(w.watchTypes))
	for k := range w.watchTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sees 朴素的可见性判断，严格开区间
func (w *mockWorld) sees(watcher string, maker string) bool {
	if watcher == maker {
		return false
	}
	if !w.watchTypes[watcher].isWatcher() || !w.watchTypes[maker].isMaker() {
		return false
	}
	wpos, wrng, mpos := w.positions[watcher], w.ranges[watcher], w.positions[maker]
	for d := range wpos {
		if !(wpos[d]-wrng[d] < mpos[d]) || !(mpos[d] < wpos[d]+wrng[d]) {
			return false
		}
	}
	return true
}

// expectedMakers 朴素双重循环得到的 watcher 可见集
func (w *mockWorld) expectedMakers(watcher string) []string {
	var makers []string
	for key := range w.watchTypes {
		if w.sees(watcher, key) {
			makers = append(makers, key)
		}
	}
	sort.Strings(makers)
	return makers
}

func (w *mockWorld) expectedWatchers(maker string) []string {
	var watchers []string
	for key := range w.watchTypes {
		if w.sees(key, maker) {
			watchers = append(watchers, key)
		}
	}
	sort.Strings(watchers)
	return watchers
}

func sorted(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
