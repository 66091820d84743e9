package cache

import "time"

// NoExpiration 永不过期
const NoExpiration int64 = 0

// now 返回当前 Unix 秒，测试中可替换
var now = func() int64 {
	return time.Now().Unix()
}

// Item 表示缓存项，Expiration 为绝对 Unix 秒
type Item struct {
	Value      string
	Expiration int64
	Created    time.Time
}

// Expired 仅当设置了过期时间且早于当前时间时才算过期，等于当前秒仍然有效
func (item Item) Expired() bool {
	return expired(item.Expiration, now())
}

func expired(expire, at int64) bool {
	return expire != NoExpiration && expire < at
}
