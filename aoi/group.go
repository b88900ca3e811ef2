package aoi

import (
	"github.com/tutumagi/aoigroup/algo"
	"github.com/tutumagi/aoigroup/logger"
)

type element struct {
	watchType  WatchType
	pos        []Coord
	watchRange []Coord

	// 谁能看到我
	relatedWatchers map[string]struct{}
	// 我能看到谁
	relatedMakers map[string]struct{}
}

// clone 深拷贝，move/rewindow 时留作 old 快照
func (e *element) clone() *element {
	c := &element{
		watchType:       e.watchType,
		pos:             append([]Coord(nil), e.pos...),
		watchRange:      append([]Coord(nil), e.watchRange...),
		relatedWatchers: make(map[string]struct{}, len(e.relatedWatchers)),
		relatedMakers:   make(map[string]struct{}, len(e.relatedMakers)),
	}
	for k := range e.relatedWatchers {
		c.relatedWatchers[k] = struct{}{}
	}
	for k := range e.relatedMakers {
		c.relatedMakers[k] = struct{}{}
	}
	return c
}

// 每个维度三个有序表
type dimensionLists struct {
	makerList        *algo.ZSkipList
	watcherLowerList *algo.ZSkipList
	watcherUpperList *algo.ZSkipList
}

// Group an area-of-interest group over a fixed dimension space
type Group struct {
	dimension     int
	maxWatchRange []Coord

	eventcb EventCallback

	elements map[string]*element
	dims     []dimensionLists

	// scratch event for engine emitted notifications, borrowed by callbacks
	event Event
}

// NewGroup dimension = len(maxWatchRange), 每个分量必须为正
func NewGroup(maxWatchRange []Coord) *Group {
	if len(maxWatchRange) < 1 {
		logger.Panicf("aoi: group needs at least one dimension")
	}
	for i, r := range maxWatchRange {
		if r <= 0 {
			logger.Panicf("aoi: max watch range of dimension %d must be positive, got %v", i, r)
		}
	}

	g := &Group{
		dimension:     len(maxWatchRange),
		maxWatchRange: append([]Coord(nil), maxWatchRange...),
		elements:      make(map[string]*element),
		dims:          make([]dimensionLists, len(maxWatchRange)),
	}
	for i := range g.dims {
		g.dims[i] = dimensionLists{
			makerList:        algo.NewZSkipList(),
			watcherLowerList: algo.NewZSkipList(),
			watcherUpperList: algo.NewZSkipList(),
		}
	}
	g.event.Pos = make([]Coord, g.dimension)
	g.event.PosFrom = make([]Coord, g.dimension)

	return g
}

// SetCallback 注册事件回调，回调内不允许再调用本 group
func (g *Group) SetCallback(cb EventCallback) {
	g.eventcb = cb
}

// Dimension of the group
func (g *Group) Dimension() int {
	return g.dimension
}

// Count of tracked elements
func (g *Group) Count() int {
	return len(g.elements)
}

func (g *Group) callback(receiver string, sender string, event *Event) {
	if g.eventcb != nil {
		g.eventcb(receiver, sender, event)
	}
}

// 引擎事件统一走这块 scratch，避免热路径上反复分配
func (g *Group) scratchEvent(id EventID) *Event {
	g.event.ID = id
	g.event.UserData = nil
	return &g.event
}

func (g *Group) checkDimension(name string, v []Coord) {
	if len(v) != g.dimension {
		logger.Panicf("aoi: %s must have %d components, got %d", name, g.dimension, len(v))
	}
}

func (g *Group) trimWatchRange(watchRange []Coord) {
	for i := range watchRange {
		if watchRange[i] < 0 {
			watchRange[i] = 0
		} else if g.maxWatchRange[i] < watchRange[i] {
			watchRange[i] = g.maxWatchRange[i]
		}
	}
}

func samePos(x, y []Coord) bool {
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Enter adds key at pos. watchRange 只对 watcher 生效，传 nil 视作全 0，
// 超出 [0, maxWatchRange] 的分量会被收拢。key 已存在时返回 false
func (g *Group) Enter(key string, pos []Coord, watchType WatchType, watchRange []Coord) bool {
	g.checkDimension("pos", pos)
	if watchRange != nil {
		g.checkDimension("watchRange", watchRange)
	}

	if _, ok := g.elements[key]; ok {
		logger.Debugf("aoi: duplicate enter %s", key)
		return false
	}

	e := &element{
		watchType:       watchType,
		pos:             append([]Coord(nil), pos...),
		watchRange:      make([]Coord, g.dimension),
		relatedWatchers: make(map[string]struct{}),
		relatedMakers:   make(map[string]struct{}),
	}
	if watchRange != nil {
		copy(e.watchRange, watchRange)
	}
	g.trimWatchRange(e.watchRange)

	g.elements[key] = e

	if watchType.isMaker() {
		g.insertMaker(key, e)
	}
	if watchType.isWatcher() {
		g.insertWatcher(key, e)
	}

	return true
}

// Leave removes key. 只有 maker 角色的移除会给周围 watcher 发 LEAVE
func (g *Group) Leave(key string) bool {
	e, ok := g.elements[key]
	if !ok {
		logger.Debugf("aoi: leave unknown key %s", key)
		return false
	}

	delete(g.elements, key)

	if e.watchType.isMaker() {
		g.removeMaker(key, e)
	}
	if e.watchType.isWatcher() {
		g.removeWatcher(key, e)
	}

	return true
}

// Move key to pos. 原地移动直接返回 true 且不产生任何事件
func (g *Group) Move(key string, pos []Coord) bool {
	e, ok := g.elements[key]
	if !ok {
		logger.Debugf("aoi: move unknown key %s", key)
		return false
	}
	g.checkDimension("pos", pos)

	if samePos(e.pos, pos) {
		return true
	}

	old := e.clone()
	copy(e.pos, pos)

	if e.watchType.isMaker() {
		g.moveMaker(key, e, old)
	}
	if e.watchType.isWatcher() {
		g.moveWatcher(key, e, old)
	}

	return true
}

// MoveDiff moves key by diff relative to its current position
func (g *Group) MoveDiff(key string, diff []Coord) bool {
	e, ok := g.elements[key]
	if !ok {
		logger.Debugf("aoi: move unknown key %s", key)
		return false
	}
	g.checkDimension("diff", diff)

	pos := make([]Coord, g.dimension)
	for i := range pos {
		pos[i] = e.pos[i] + diff[i]
	}

	return g.Move(key, pos)
}

// ChangeWatchType 按角色位差增删，获得角色走 enter 路径，失去角色走 remove 路径
func (g *Group) ChangeWatchType(key string, watchType WatchType) bool {
	e, ok := g.elements[key]
	if !ok {
		logger.Debugf("aoi: change watch type of unknown key %s", key)
		return false
	}

	oldWatchType := e.watchType
	e.watchType = watchType

	if oldWatchType.isMaker() && !watchType.isMaker() {
		g.removeMaker(key, e)
	}
	if !oldWatchType.isMaker() && watchType.isMaker() {
		g.insertMaker(key, e)
	}

	if oldWatchType.isWatcher() && !watchType.isWatcher() {
		g.removeWatcher(key, e)
	}
	if !oldWatchType.isWatcher() && watchType.isWatcher() {
		g.insertWatcher(key, e)
	}

	return true
}

// ChangeWatchRange 收拢后无变化直接返回 true；watcher 角色按新窗口重算视野，
// 只发 ENTER/LEAVE，不发 MOVE
func (g *Group) ChangeWatchRange(key string, watchRange []Coord) bool {
	e, ok := g.elements[key]
	if !ok {
		logger.Debugf("aoi: change watch range of unknown key %s", key)
		return false
	}
	g.checkDimension("watchRange", watchRange)

	trimmed := append([]Coord(nil), watchRange...)
	g.trimWatchRange(trimmed)

	if samePos(e.watchRange, trimmed) {
		return true
	}

	old := e.clone()
	copy(e.watchRange, trimmed)

	if e.watchType.isWatcher() {
		g.updateWatcher(key, e, old, nil)
	}

	return true
}

// Position of key. 返回的是拷贝
func (g *Group) Position(key string) ([]Coord, bool) {
	e, ok := g.elements[key]
	if !ok {
		return nil, false
	}
	return append([]Coord(nil), e.pos...), true
}

// WatchersList 谁能看到 key
func (g *Group) WatchersList(key string) ([]string, bool) {
	e, ok := g.elements[key]
	if !ok {
		return nil, false
	}
	return keysOf(e.relatedWatchers), true
}

// MakersList key 能看到谁
func (g *Group) MakersList(key string) ([]string, bool) {
	e, ok := g.elements[key]
	if !ok {
		return nil, false
	}
	return keysOf(e.relatedMakers), true
}

// BroadcastEventToWatchers delivers event to everyone currently seeing key
func (g *Group) BroadcastEventToWatchers(key string, event *Event) bool {
	e, ok := g.elements[key]
	if !ok {
		return false
	}

	watchers := keysOf(e.relatedWatchers)
	for _, watcher := range watchers {
		g.callback(watcher, key, event)
	}

	return true
}

// BroadcastEventToWatchersByPos delivers event to every watcher whose
// window strictly contains pos
func (g *Group) BroadcastEventToWatchersByPos(pos []Coord, sender string, event *Event) {
	g.checkDimension("pos", pos)

	watchers := g.WatchersRelatedToPos(pos, nil)
	for _, watcher := range watchers {
		g.callback(watcher, sender, event)
	}
}

func keysOf(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}
