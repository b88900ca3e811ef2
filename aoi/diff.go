package aoi

// diffSortedKeys 单趟线性归并两个有序 key 列表，
// 拆出 old\new（离开）、old∩new（保持）、new\old（进入）
func diffSortedKeys(old []string, new []string) (leaves []string, keeps []string, enters []string) {
	oldid, newid := 0, 0

	for oldid < len(old) && newid < len(new) {
		switch {
		case old[oldid] == new[newid]:
			keeps = append(keeps, old[oldid])
			oldid++
			newid++
		case old[oldid] < new[newid]:
			leaves = append(leaves, old[oldid])
			oldid++
		default:
			enters = append(enters, new[newid])
			newid++
		}
	}

	leaves = append(leaves, old[oldid:]...)
	enters = append(enters, new[newid:]...)

	return leaves, keeps, enters
}

// sortedUnique 原地去重，输入必须有序
func sortedUnique(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}

	n := 1
	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[n-1] {
			keys[n] = keys[i]
			n++
		}
	}
	return keys[:n]
}
