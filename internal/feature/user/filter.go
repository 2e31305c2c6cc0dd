package user

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"go-gin-mongo-users/internal/domain"
)

// 过滤条件按谓词组建模：每组内部有明确的优先级，由 resolve 按序取第一个
// 命中的谓词，组内其余参数直接忽略，不存在先写后覆盖的歧义。

// NamePredicate 名称组：Regex 优先于 Substring，二者都编译成大小写不敏感匹配。
type NamePredicate struct {
	Regex     string
	Substring string
}

func (p NamePredicate) resolve(f bson.M) {
	switch {
	case p.Regex != "":
		f["name"] = bson.M{"$regex": p.Regex, "$options": "i"}
	case p.Substring != "":
		f["name"] = bson.M{"$regex": p.Substring, "$options": "i"}
	}
}

// AgePredicate 年龄组：In > NotIn > Equals。In/NotIn 是逗号分隔的整数字面量，
// 出现非数字 token 时整个请求失败，不做静默跳过。
type AgePredicate struct {
	In     string
	NotIn  string
	Equals *int
}

func (p AgePredicate) resolve(f bson.M) error {
	switch {
	case p.In != "":
		ages, err := parseIntList(p.In)
		if err != nil {
			return err
		}
		f["age"] = bson.M{"$in": ages}
	case p.NotIn != "":
		ages, err := parseIntList(p.NotIn)
		if err != nil {
			return err
		}
		f["age"] = bson.M{"$nin": ages}
	case p.Equals != nil:
		f["age"] = *p.Equals
	}
	return nil
}

// PhonePredicate 电话组：三态 Has（true/false/缺省）优先于 Substring。
// Has=true 要求字段存在且非空；Has=false 匹配缺失、null 或空串。
type PhonePredicate struct {
	Has       *bool
	Substring string
}

func (p PhonePredicate) resolve(f bson.M) {
	switch {
	case p.Has != nil && *p.Has:
		f["phone"] = bson.M{"$exists": true, "$nin": bson.A{nil, ""}}
	case p.Has != nil:
		f["$or"] = bson.A{
			bson.M{"phone": bson.M{"$exists": false}},
			bson.M{"phone": nil},
			bson.M{"phone": ""},
		}
	case p.Substring != "":
		f["phone"] = bson.M{"$regex": p.Substring, "$options": "i"}
	}
}

// Predicates 一次列表请求携带的全部过滤谓词。
type Predicates struct {
	Email string
	Name  NamePredicate
	Age   AgePredicate
	Phone PhonePredicate
	Text  string // 自由文本检索，走 $text 索引
}

// BuildFilter 把谓词集合编译成一条存储过滤表达式。
// includeDeleted=false（默认）时固定限制 isDeleted=false；
// 没有任何谓词时就只剩删除可见性限制，匹配全部（未删）记录。
func BuildFilter(p Predicates, includeDeleted bool) (bson.M, error) {
	f := bson.M{}

	if !includeDeleted {
		f["isDeleted"] = false
	}

	if p.Email != "" {
		f["email"] = bson.M{"$regex": p.Email, "$options": "i"}
	}

	p.Name.resolve(f)
	if err := p.Age.resolve(f); err != nil {
		return nil, err
	}
	p.Phone.resolve(f)

	if p.Text != "" {
		f["$text"] = bson.M{"$search": p.Text}
	}

	return f, nil
}

func parseIntList(s string) ([]int, error) {
	var (
		out []int
		bad []string
	)
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil {
			bad = append(bad, tok)
			continue
		}
		out = append(out, n)
	}
	if len(bad) > 0 {
		return nil, domain.NewValidationError("invalid integer list", bad, nil)
	}
	return out, nil
}
