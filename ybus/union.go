package ybus

// union 并查集，用于合并理想短接的节点
type union struct {
	parent []int
}

// add 新增一个独立节点并返回其编号
func (u *union) add() int {
	u.parent = append(u.parent, len(u.parent))
	return len(u.parent) - 1
}

func (u *union) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// join 合并两个节点所在集合，根取较小编号以保证结果与加入顺序无关
func (u *union) join(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	return true
}

func (u *union) len() int { return len(u.parent) }
