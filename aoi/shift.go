package aoi

import "sort"

// move 的两种维护策略：
//   - 全量重算（update*）：在新位置跑一次枢轴查询，和旧关系集 diff
//   - 平移（shift*）：新旧窗口在每个维度都有重叠时，对称差是 2D 个薄片，
//     逐片枚举真正进出的实体
//
// 两边都先按候选数估价，取便宜的一边，持平取全量重算

type moveWatcherHint struct {
	leaveDimension []int
	enterDimension []int
	complexity     int
}

type moveMakerHint struct {
	leaveDimension []int
	leaveUseLower  []bool
	enterDimension []int
	enterUseLower  []bool
	complexity     int
}

func (g *Group) moveWatcher(key string, e *element, old *element) {
	// 新旧窗口必须每个维度都相交，否则薄片分解不成立，只能全量重算
	for i := 0; i < g.dimension; i++ {
		diff := e.pos[i] - old.pos[i]
		if diff < 0 {
			diff = -diff
		}
		if !(diff < e.watchRange[i]+old.watchRange[i]) {
			g.updateWatcher(key, e, old, nil)
			return
		}
	}

	updateHint := g.calcMakersInRangeHint(e.pos, e.watchRange)
	moveHint := g.calcMoveWatcherHint(e, old)

	if updateHint.complexity <= moveHint.complexity {
		g.updateWatcher(key, e, old, &updateHint)
	} else {
		g.shiftWatcher(key, e, old, &moveHint)
	}
}

func (g *Group) moveMaker(key string, e *element, old *element) {
	for i := 0; i < g.dimension; i++ {
		diff := e.pos[i] - old.pos[i]
		if diff < 0 {
			diff = -diff
		}
		if !(diff < g.maxWatchRange[i]+g.maxWatchRange[i]) {
			g.updateMaker(key, e, old, nil)
			return
		}
	}

	updateHint := g.calcWatchersRelatedToPosHint(e.pos)
	moveHint := g.calcMoveMakerHint(e, old)

	if updateHint.complexity <= moveHint.complexity {
		g.updateMaker(key, e, old, &updateHint)
	} else {
		g.shiftMaker(key, e, old, &moveHint)
	}
}

// calcMoveWatcherHint 对每个薄片轴 d 挑一个枚举代价最小的 maker 表维度
func (g *Group) calcMoveWatcherHint(e *element, old *element) moveWatcherHint {
	hint := moveWatcherHint{
		leaveDimension: make([]int, g.dimension),
		enterDimension: make([]int, g.dimension),
	}

	for d := 0; d < g.dimension; d++ {
		// LEAVE 薄片
		leaveDimension := -1
		leaveComplexity := 0
		for i := 0; i < g.dimension; i++ {
			var count int
			if i == d {
				if old.pos[i] < e.pos[i] {
					// 正向移动，旧下沿和新下沿之间的 maker 被甩出窗口
					oldEdge := old.pos[i] - old.watchRange[i]
					newEdge := e.pos[i] - e.watchRange[i]
					count = g.dims[i].makerList.CountInRange(oldEdge, true, newEdge, false)
				} else {
					oldEdge := old.pos[i] + old.watchRange[i]
					newEdge := e.pos[i] + e.watchRange[i]
					count = g.dims[i].makerList.CountInRange(newEdge, false, oldEdge, true)
				}
			} else {
				count = g.dims[i].makerList.CountInRange(old.pos[i]-old.watchRange[i], true, old.pos[i]+old.watchRange[i], true)
			}

			if leaveDimension < 0 || count < leaveComplexity {
				leaveDimension = i
				leaveComplexity = count
			}
		}
		hint.leaveDimension[d] = leaveDimension
		hint.complexity += leaveComplexity

		// ENTER 薄片
		enterDimension := -1
		enterComplexity := 0
		for i := 0; i < g.dimension; i++ {
			var count int
			if i == d {
				if old.pos[i] < e.pos[i] {
					oldEdge := old.pos[i] + old.watchRange[i]
					newEdge := e.pos[i] + e.watchRange[i]
					count = g.dims[i].makerList.CountInRange(oldEdge, false, newEdge, true)
				} else {
					oldEdge := old.pos[i] - old.watchRange[i]
					newEdge := e.pos[i] - e.watchRange[i]
					count = g.dims[i].makerList.CountInRange(newEdge, true, oldEdge, false)
				}
			} else {
				count = g.dims[i].makerList.CountInRange(e.pos[i]-e.watchRange[i], true, e.pos[i]+e.watchRange[i], true)
			}

			if enterDimension < 0 || count < enterComplexity {
				enterDimension = i
				enterComplexity = count
			}
		}
		hint.enterDimension[d] = enterDimension
		hint.complexity += enterComplexity
	}

	return hint
}

// shiftWatcher 逐薄片收集真正离开/进入视野的 maker，薄片间可能重叠，
// 先排序去重再发事件
func (g *Group) shiftWatcher(key string, e *element, old *element, hint *moveWatcherHint) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].watcherLowerList.Update(key, old.pos[i]-old.watchRange[i], e.pos[i]-e.watchRange[i])
		g.dims[i].watcherUpperList.Update(key, old.pos[i]+old.watchRange[i], e.pos[i]+e.watchRange[i])
	}

	var leaveMakers []string
	var enterMakers []string

	for d := 0; d < g.dimension; d++ {
		slab := d

		leaveVisit := func(_ int, k string, _ float32) bool {
			if k == key {
				return true
			}
			me, ok := g.elements[k]
			if !ok {
				return true
			}

			// 在旧窗口内，且在薄片轴上被甩出新窗口
			for i := 0; i < g.dimension; i++ {
				if i == slab {
					if old.pos[i] < e.pos[i] {
						oldEdge := old.pos[i] - old.watchRange[i]
						newEdge := e.pos[i] - e.watchRange[i]
						if !(oldEdge < me.pos[i]) || newEdge < me.pos[i] {
							return true
						}
					} else {
						oldEdge := old.pos[i] + old.watchRange[i]
						newEdge := e.pos[i] + e.watchRange[i]
						if me.pos[i] < newEdge || !(me.pos[i] < oldEdge) {
							return true
						}
					}
				} else {
					lower := old.pos[i] - old.watchRange[i]
					upper := old.pos[i] + old.watchRange[i]
					if !(lower < me.pos[i]) || !(me.pos[i] < upper) {
						return true
					}
				}
			}

			leaveMakers = append(leaveMakers, k)
			return true
		}

		if j := hint.leaveDimension[d]; j == d {
			if old.pos[d] < e.pos[d] {
				g.dims[d].makerList.RangeInRange(old.pos[d]-old.watchRange[d], true, e.pos[d]-e.watchRange[d], false, leaveVisit)
			} else {
				g.dims[d].makerList.RangeInRange(e.pos[d]+e.watchRange[d], false, old.pos[d]+old.watchRange[d], true, leaveVisit)
			}
		} else {
			g.dims[j].makerList.RangeInRange(old.pos[j]-old.watchRange[j], true, old.pos[j]+old.watchRange[j], true, leaveVisit)
		}

		enterVisit := func(_ int, k string, _ float32) bool {
			if k == key {
				return true
			}
			me, ok := g.elements[k]
			if !ok {
				return true
			}

			// 在新窗口内，且在薄片轴上是刚刚扫进来的
			for i := 0; i < g.dimension; i++ {
				if i == slab {
					if old.pos[i] < e.pos[i] {
						oldEdge := old.pos[i] + old.watchRange[i]
						newEdge := e.pos[i] + e.watchRange[i]
						if me.pos[i] < oldEdge || !(me.pos[i] < newEdge) {
							return true
						}
					} else {
						oldEdge := old.pos[i] - old.watchRange[i]
						newEdge := e.pos[i] - e.watchRange[i]
						if !(newEdge < me.pos[i]) || oldEdge < me.pos[i] {
							return true
						}
					}
				} else {
					lower := e.pos[i] - e.watchRange[i]
					upper := e.pos[i] + e.watchRange[i]
					if !(lower < me.pos[i]) || !(me.pos[i] < upper) {
						return true
					}
				}
			}

			enterMakers = append(enterMakers, k)
			return true
		}

		if j := hint.enterDimension[d]; j == d {
			if old.pos[d] < e.pos[d] {
				g.dims[d].makerList.RangeInRange(old.pos[d]+old.watchRange[d], false, e.pos[d]+e.watchRange[d], true, enterVisit)
			} else {
				g.dims[d].makerList.RangeInRange(e.pos[d]-e.watchRange[d], true, old.pos[d]-old.watchRange[d], false, enterVisit)
			}
		} else {
			g.dims[j].makerList.RangeInRange(e.pos[j]-e.watchRange[j], true, e.pos[j]+e.watchRange[j], true, enterVisit)
		}
	}

	sort.Strings(leaveMakers)
	sort.Strings(enterMakers)
	leaveMakers = sortedUnique(leaveMakers)
	enterMakers = sortedUnique(enterMakers)

	for _, maker := range leaveMakers {
		delete(e.relatedMakers, maker)

		me, ok := g.elements[maker]
		if !ok {
			continue
		}
		delete(me.relatedWatchers, key)
	}

	for _, maker := range enterMakers {
		e.relatedMakers[maker] = struct{}{}

		me, ok := g.elements[maker]
		if !ok {
			continue
		}
		me.relatedWatchers[key] = struct{}{}
	}

	if len(leaveMakers) > 0 || len(enterMakers) > 0 {
		ev := g.scratchEvent(EventLeave)
		for _, maker := range leaveMakers {
			me, ok := g.elements[maker]
			if !ok {
				continue
			}
			copy(ev.Pos, me.pos)
			g.callback(key, maker, ev)
		}

		ev = g.scratchEvent(EventEnter)
		for _, maker := range enterMakers {
			me, ok := g.elements[maker]
			if !ok {
				continue
			}
			copy(ev.Pos, me.pos)
			g.callback(key, maker, ev)
		}
	}
}

// calcMoveMakerHint watcher 索引是边沿表，非薄片轴还要在上下两张表之间二选一
func (g *Group) calcMoveMakerHint(e *element, old *element) moveMakerHint {
	hint := moveMakerHint{
		leaveDimension: make([]int, g.dimension),
		leaveUseLower:  make([]bool, g.dimension),
		enterDimension: make([]int, g.dimension),
		enterUseLower:  make([]bool, g.dimension),
	}

	for d := 0; d < g.dimension; d++ {
		// LEAVE 薄片
		leaveDimension := -1
		leaveUseLower := true
		leaveComplexity := 0
		for i := 0; i < g.dimension; i++ {
			if i == d {
				var count int
				if old.pos[i] < e.pos[i] {
					// 上沿落在 (old, new] 的 watcher 看得到旧位置、看不到新位置
					count = g.dims[i].watcherUpperList.CountInRange(old.pos[i], true, e.pos[i], false)
				} else {
					count = g.dims[i].watcherLowerList.CountInRange(e.pos[i], false, old.pos[i], true)
				}
				if leaveDimension < 0 || count < leaveComplexity {
					leaveDimension = i
					leaveComplexity = count
				}
			} else {
				// 候选窗宽取 2*max：看得到 pos 的 watcher 下沿最多在 pos 下方 2r 处
				count := g.dims[i].watcherLowerList.CountInRange(old.pos[i]-2*g.maxWatchRange[i], true, old.pos[i], true)
				if leaveDimension < 0 || count < leaveComplexity {
					leaveDimension = i
					leaveUseLower = true
					leaveComplexity = count
				}

				count = g.dims[i].watcherUpperList.CountInRange(old.pos[i], true, old.pos[i]+2*g.maxWatchRange[i], true)
				if count < leaveComplexity {
					leaveDimension = i
					leaveUseLower = false
					leaveComplexity = count
				}
			}
		}
		hint.leaveDimension[d] = leaveDimension
		hint.leaveUseLower[d] = leaveUseLower
		hint.complexity += leaveComplexity

		// ENTER 薄片
		enterDimension := -1
		enterUseLower := true
		enterComplexity := 0
		for i := 0; i < g.dimension; i++ {
			if i == d {
				var count int
				if old.pos[i] < e.pos[i] {
					count = g.dims[i].watcherLowerList.CountInRange(old.pos[i], false, e.pos[i], true)
				} else {
					count = g.dims[i].watcherUpperList.CountInRange(e.pos[i], true, old.pos[i], false)
				}
				if enterDimension < 0 || count < enterComplexity {
					enterDimension = i
					enterComplexity = count
				}
			} else {
				count := g.dims[i].watcherLowerList.CountInRange(e.pos[i]-2*g.maxWatchRange[i], true, e.pos[i], true)
				if enterDimension < 0 || count < enterComplexity {
					enterDimension = i
					enterUseLower = true
					enterComplexity = count
				}

				count = g.dims[i].watcherUpperList.CountInRange(e.pos[i], true, e.pos[i]+2*g.maxWatchRange[i], true)
				if count < enterComplexity {
					enterDimension = i
					enterUseLower = false
					enterComplexity = count
				}
			}
		}
		hint.enterDimension[d] = enterDimension
		hint.enterUseLower[d] = enterUseLower
		hint.complexity += enterComplexity
	}

	return hint
}

func (g *Group) shiftMaker(key string, e *element, old *element, hint *moveMakerHint) {
	for i := 0; i < g.dimension; i++ {
		g.dims[i].makerList.Update(key, old.pos[i], e.pos[i])
	}

	var leaveWatchers []string
	var enterWatchers []string

	for d := 0; d < g.dimension; d++ {
		slab := d

		leaveVisit := func(_ int, k string, _ float32) bool {
			// 筛出看得到旧位置、在薄片轴上丢失新位置的 watcher
			if k == key {
				return true
			}
			we, ok := g.elements[k]
			if !ok {
				return true
			}

			for i := 0; i < g.dimension; i++ {
				lower := we.pos[i] - we.watchRange[i]
				upper := we.pos[i] + we.watchRange[i]

				if i == slab {
					if old.pos[i] < e.pos[i] {
						if !(lower < old.pos[i] && old.pos[i] < upper && !(e.pos[i] < upper)) {
							return true
						}
					} else {
						if !(!(lower < e.pos[i]) && lower < old.pos[i] && old.pos[i] < upper) {
							return true
						}
					}
				} else {
					if !(lower < old.pos[i]) || !(old.pos[i] < upper) {
						return true
					}
				}
			}

			leaveWatchers = append(leaveWatchers, k)
			return true
		}

		if j := hint.leaveDimension[d]; j == d {
			if old.pos[d] < e.pos[d] {
				g.dims[d].watcherUpperList.RangeInRange(old.pos[d], true, e.pos[d], false, leaveVisit)
			} else {
				g.dims[d].watcherLowerList.RangeInRange(e.pos[d], false, old.pos[d], true, leaveVisit)
			}
		} else {
			if hint.leaveUseLower[d] {
				g.dims[j].watcherLowerList.RangeInRange(old.pos[j]-2*g.maxWatchRange[j], true, old.pos[j], true, leaveVisit)
			} else {
				g.dims[j].watcherUpperList.RangeInRange(old.pos[j], true, old.pos[j]+2*g.maxWatchRange[j], true, leaveVisit)
			}
		}

		enterVisit := func(_ int, k string, _ float32) bool {
			// 筛出看得到新位置、旧位置原本看不到的 watcher
			if k == key {
				return true
			}
			we, ok := g.elements[k]
			if !ok {
				return true
			}

			for i := 0; i < g.dimension; i++ {
				lower := we.pos[i] - we.watchRange[i]
				upper := we.pos[i] + we.watchRange[i]

				if i == slab {
					if old.pos[i] < e.pos[i] {
						if !(!(lower < old.pos[i]) && lower < e.pos[i] && e.pos[i] < upper) {
							return true
						}
					} else {
						if !(lower < e.pos[i] && e.pos[i] < upper && !(old.pos[i] < upper)) {
							return true
						}
					}
				} else {
					if !(lower < e.pos[i]) || !(e.pos[i] < upper) {
						return true
					}
				}
			}

			enterWatchers = append(enterWatchers, k)
			return true
		}

		if j := hint.enterDimension[d]; j == d {
			if old.pos[d] < e.pos[d] {
				g.dims[d].watcherLowerList.RangeInRange(old.pos[d], false, e.pos[d], true, enterVisit)
			} else {
				g.dims[d].watcherUpperList.RangeInRange(e.pos[d], true, old.pos[d], false, enterVisit)
			}
		} else {
			if hint.enterUseLower[d] {
				g.dims[j].watcherLowerList.RangeInRange(e.pos[j]-2*g.maxWatchRange[j], true, e.pos[j], true, enterVisit)
			} else {
				g.dims[j].watcherUpperList.RangeInRange(e.pos[j], true, e.pos[j]+2*g.maxWatchRange[j], true, enterVisit)
			}
		}
	}

	sort.Strings(leaveWatchers)
	sort.Strings(enterWatchers)
	leaveWatchers = sortedUnique(leaveWatchers)
	enterWatchers = sortedUnique(enterWatchers)

	for _, watcher := range leaveWatchers {
		delete(e.relatedWatchers, watcher)

		we, ok := g.elements[watcher]
		if !ok {
			continue
		}
		delete(we.relatedMakers, key)
	}

	// 去掉离开者之后剩下的就是 keep，进入者随后补上
	keepWatchers := keysOf(e.relatedWatchers)
	sort.Strings(keepWatchers)

	for _, watcher := range enterWatchers {
		e.relatedWatchers[watcher] = struct{}{}

		we, ok := g.elements[watcher]
		if !ok {
			continue
		}
		we.relatedMakers[key] = struct{}{}
	}

	if len(leaveWatchers) > 0 || len(keepWatchers) > 0 || len(enterWatchers) > 0 {
		ev := g.scratchEvent(EventLeave)
		copy(ev.Pos, e.pos)
		copy(ev.PosFrom, old.pos)

		for _, watcher := range leaveWatchers {
			g.callback(watcher, key, ev)
		}

		ev.ID = EventMove
		for _, watcher := range keepWatchers {
			g.callback(watcher, key, ev)
		}

		ev.ID = EventEnter
		for _, watcher := range enterWatchers {
			g.callback(watcher, key, ev)
		}
	}
}
