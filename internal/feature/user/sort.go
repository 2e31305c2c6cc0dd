package user

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ParseSort 解析 "field:dir,field:dir" 形式的排序串成有序的 (字段, 方向) 列表，
// 方向为 "1" 时升序，其余（包括省略）一律降序。后面的字段是前面的 tie-breaker。
// 字段名不做白名单校验，未知字段原样透传给存储（契约如此，调用方自行兜底）。
func ParseSort(spec string) bson.D {
	if strings.TrimSpace(spec) == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}

	var sorts bson.D
	for _, tok := range strings.Split(spec, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(tok), ":")
		if field == "" {
			continue
		}
		v := -1
		if dir == "1" {
			v = 1
		}
		sorts = append(sorts, bson.E{Key: field, Value: v})
	}
	if len(sorts) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sorts
}
