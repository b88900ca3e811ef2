package aoi

import "sort"

func (g *Group) insertWatcher(key string, e *element) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].watcherLowerList.Insert(key, e.pos[i]-e.watchRange[i])
		g.dims[i].watcherUpperList.Insert(key, e.pos[i]+e.watchRange[i])
	}

	// 此时自己已经在索引里了，查询时要把自己排掉
	makers := g.makersInRange(e.pos, e.watchRange, []string{key}, nil)

	for _, maker := range makers {
		me, ok := g.elements[maker]
		if !ok {
			continue
		}
		me.relatedWatchers[key] = struct{}{}
		e.relatedMakers[maker] = struct{}{}
	}

	if len(makers) > 0 {
		ev := g.scratchEvent(EventEnter)

		for _, maker := range makers {
			me, ok := g.elements[maker]
			if !ok {
				continue
			}

			copy(ev.Pos, me.pos)

			// 通知本 watcher，周围已有的 maker 进入视野
			g.callback(key, maker, ev)
		}
	}
}

func (g *Group) insertMaker(key string, e *element) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].makerList.Insert(key, e.pos[i])
	}

	watchers := g.watchersRelatedToPos(e.pos, []string{key}, nil)

	for _, watcher := range watchers {
		we, ok := g.elements[watcher]
		if !ok {
			continue
		}
		we.relatedMakers[key] = struct{}{}
		e.relatedWatchers[watcher] = struct{}{}
	}

	if len(watchers) > 0 {
		ev := g.scratchEvent(EventEnter)
		copy(ev.Pos, e.pos)

		for _, watcher := range watchers {
			// 通知周围的 watcher，本 maker 进入视野
			g.callback(watcher, key, ev)
		}
	}
}

// updateWatcher 全量重算 watcher 的可见集并和旧集合做 diff。
// move 和改视野共用，hint 传 nil 则现算
func (g *Group) updateWatcher(key string, e *element, old *element, hint *makersInRangeHint) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].watcherLowerList.Update(key, old.pos[i]-old.watchRange[i], e.pos[i]-e.watchRange[i])
		g.dims[i].watcherUpperList.Update(key, old.pos[i]+old.watchRange[i], e.pos[i]+e.watchRange[i])
	}

	newMakers := g.makersInRange(e.pos, e.watchRange, []string{key}, hint)
	sort.Strings(newMakers)

	oldMakers := keysOf(old.relatedMakers)
	sort.Strings(oldMakers)

	leaves, _, enters := diffSortedKeys(oldMakers, newMakers)

	for _, maker := range leaves {
		delete(e.relatedMakers, maker)

		me, ok := g.elements[maker]
		if !ok {
			continue
		}
		delete(me.relatedWatchers, key)
	}

	for _, maker := range enters {
		e.relatedMakers[maker] = struct{}{}

		me, ok := g.elements[maker]
		if !ok {
			continue
		}
		me.relatedWatchers[key] = struct{}{}
	}

	if len(leaves) > 0 || len(enters) > 0 {
		ev := g.scratchEvent(EventLeave)
		for _, maker := range leaves {
			me, ok := g.elements[maker]
			if !ok {
				continue
			}
			copy(ev.Pos, me.pos)
			g.callback(key, maker, ev)
		}

		ev = g.scratchEvent(EventEnter)
		for _, maker := range enters {
			me, ok := g.elements[maker]
			if !ok {
				continue
			}
			copy(ev.Pos, me.pos)
			g.callback(key, maker, ev)
		}

		// watcher 自己动不发 MOVE
	}
}

// updateMaker 全量重算能看到本 maker 的 watcher 集并和旧集合做 diff
func (g *Group) updateMaker(key string, e *element, old *element, hint *watchersRelatedToPosHint) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].makerList.Update(key, old.pos[i], e.pos[i])
	}

	newWatchers := g.watchersRelatedToPos(e.pos, []string{key}, hint)
	sort.Strings(newWatchers)

	oldWatchers := keysOf(old.relatedWatchers)
	sort.Strings(oldWatchers)

	leaves, keeps, enters := diffSortedKeys(oldWatchers, newWatchers)

	for _, watcher := range leaves {
		delete(e.relatedWatchers, watcher)

		we, ok := g.elements[watcher]
		if !ok {
			continue
		}
		delete(we.relatedMakers, key)
	}

	for _, watcher := range enters {
		e.relatedWatchers[watcher] = struct{}{}

		we, ok := g.elements[watcher]
		if !ok {
			continue
		}
		we.relatedMakers[key] = struct{}{}
	}

	if len(leaves) > 0 || len(keeps) > 0 || len(enters) > 0 {
		ev := g.scratchEvent(EventLeave)
		copy(ev.Pos, e.pos)
		copy(ev.PosFrom, old.pos)

		for _, watcher := range leaves {
			// 通知 watcher，本 maker 离开视野
			g.callback(watcher, key, ev)
		}

		ev.ID = EventMove
		for _, watcher := range keeps {
			g.callback(watcher, key, ev)
		}

		ev.ID = EventEnter
		for _, watcher := range enters {
			// 通知 watcher，本 maker 进入视野
			g.callback(watcher, key, ev)
		}
	}
}

func (g *Group) removeWatcher(key string, e *element) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].watcherLowerList.Delete(key, e.pos[i]-e.watchRange[i])
		g.dims[i].watcherUpperList.Delete(key, e.pos[i]+e.watchRange[i])
	}

	for maker := range e.relatedMakers {
		me, ok := g.elements[maker]
		if !ok {
			continue
		}
		delete(me.relatedWatchers, key)
	}

	e.relatedMakers = make(map[string]struct{})

	// 移除 watcher 不产生任何事件
}

func (g *Group) removeMaker(key string, e *element) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].makerList.Delete(key, e.pos[i])
	}

	for watcher := range e.relatedWatchers {
		we, ok := g.elements[watcher]
		if !ok {
			continue
		}
		delete(we.relatedMakers, key)
	}

	if len(e.relatedWatchers) > 0 {
		watchers := keysOf(e.relatedWatchers)
		e.relatedWatchers = make(map[string]struct{})

		ev := g.scratchEvent(EventLeave)
		copy(ev.Pos, e.pos)

		for _, watcher := range watchers {
			// 通知周围的 watcher，本 maker 离开视野
			g.callback(watcher, key, ev)
		}
	}
}
