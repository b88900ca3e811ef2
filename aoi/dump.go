package aoi

import (
	"fmt"
	"sort"
	"strings"
)

// DumpElements 所有实体的状态，调试用
func (g *Group) DumpElements() string {
	var sb strings.Builder

	keys := make([]string, 0, len(g.elements))
	for k := range g.elements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb.WriteString("** DUMP ELEMENTS BEGIN\n")
	for _, key := range keys {
		e := g.elements[key]

		fmt.Fprintf(&sb, "ID=%s: POS=%v ", key, e.pos)

		if e.watchType.isWatcher() {
			watching := keysOf(e.relatedMakers)
			sort.Strings(watching)
			fmt.Fprintf(&sb, "<W> WATCH_RANGE=%v RELATED_MAKERS=%v ", e.watchRange, watching)
		}

		if e.watchType.isMaker() {
			watchedBy := keysOf(e.relatedWatchers)
			sort.Strings(watchedBy)
			fmt.Fprintf(&sb, "<M> RELATED_WATCHERS=%v ", watchedBy)
		}

		sb.WriteString("\n")
	}
	sb.WriteString("** DUMP ELEMENTS END")

	return sb.String()
}

// DumpLists 每个维度三个有序表的层级布局，调试用
func (g *Group) DumpLists() string {
	var sb strings.Builder

	sb.WriteString("** DUMP LISTS BEGIN\n")
	for i := 0; i < g.dimension; i++ {
		fmt.Fprintf(&sb, "*** dimension #%d WATCHER_LOWER_LIST\n%s\n", i, g.dims[i].watcherLowerList.DumpLevels())
		fmt.Fprintf(&sb, "*** dimension #%d WATCHER_UPPER_LIST\n%s\n", i, g.dims[i].watcherUpperList.DumpLevels())
		fmt.Fprintf(&sb, "*** dimension #%d MAKER_LIST\n%s\n", i, g.dims[i].makerList.DumpLevels())
	}
	sb.WriteString("** DUMP LISTS END")

	return sb.String()
}

// CheckConsistency 校验每个实体存下来的关系集和现查一遍的结果一致。
// 增量维护出错时这里会第一时间暴露，测试用
func (g *Group) CheckConsistency() bool {
	for key, e := range g.elements {
		excludes := []string{key}

		if e.watchType.isWatcher() {
			makers := g.makersInRange(e.pos, e.watchRange, excludes, nil)
			sort.Strings(makers)

			stored := keysOf(e.relatedMakers)
			sort.Strings(stored)

			if !equalKeys(makers, stored) {
				return false
			}
		}

		if e.watchType.isMaker() {
			watchers := g.watchersRelatedToPos(e.pos, excludes, nil)
			sort.Strings(watchers)

			stored := keysOf(e.relatedWatchers)
			sort.Strings(stored)

			if !equalKeys(watchers, stored) {
				return false
			}
		}
	}

	return true
}

func equalKeys(x, y []string) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
