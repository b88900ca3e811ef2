// Package aoi maintains, for a dynamic set of keyed points in a fixed
// dimension space, the relation "watcher can see maker" together with the
// ENTER/LEAVE/MOVE notifications emitted whenever that relation changes.
//
// 每个维度上用三个跳表维护 maker 坐标、watcher 视野下边沿、watcher 视野上边沿。
// 移动时按估价在对称差薄片平移和全量重算之间取便宜的一边；
// 进入、改视野、改角色都走全量查询，不做平移
package aoi

// Coord 坐标单位
type Coord = float32

// WatchType 实体在视野关系里扮演的角色，可以按位组合
type WatchType int

const (
	// Watcher 观察周围的 maker
	Watcher WatchType = 1 << iota
	// Maker 被周围的 watcher 观察
	Maker
	// Both watcher and maker
	Both = Watcher | Maker
)

func (wt WatchType) isWatcher() bool { return wt&Watcher != 0 }
func (wt WatchType) isMaker() bool   { return wt&Maker != 0 }

// EventID aoi event id
type EventID int

// engine events. 用户自定义广播事件请使用非负值
const (
	EventEnter EventID = -1
	EventLeave EventID = -2
	EventMove  EventID = -3
)

func (id EventID) String() string {
	switch id {
	case EventEnter:
		return "ENTER"
	case EventLeave:
		return "LEAVE"
	case EventMove:
		return "MOVE"
	default:
		return "UNKNOWN"
	}
}

// Event delivered to the group callback.
//
// Pos is the sender's position (its new position for EventMove); PosFrom is
// only meaningful for EventMove and holds the sender's previous position.
// Both slices are scratch buffers owned by the group for engine generated
// events, valid only for the duration of the callback — copy them out if
// you keep them.
type Event struct {
	ID       EventID
	Pos      []Coord
	PosFrom  []Coord
	UserData interface{}
}

// EventCallback receiver 是应当观察到这件事的实体，sender 是事件的主体
//
// The callback runs on the caller's stack inside the triggering operation
// and must not call back into the group.
type EventCallback func(receiver string, sender string, event *Event)
