package user

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"go-gin-mongo-users/internal/domain"
)

// Visibility 字段可见性预设。
type Visibility string

const (
	VisibilityBasic  Visibility = "basic"
	VisibilityAdmin  Visibility = "admin"
	VisibilityCustom Visibility = "custom"
)

// BuildProjection 按可见性预设生成投影。
//   - basic（默认）：排除整个隐藏集。
//   - admin：只排除 __v，删除元数据和 emailLower 可见。
//   - custom：先整体校验字段名（任何非法字段 → 整个请求失败），
//     然后先排除隐藏集、再包含校验通过的字段；同一字段以包含为准。
func BuildProjection(mode Visibility, customFields string) (bson.M, error) {
	switch mode {
	case VisibilityCustom:
		if customFields == "" {
			break
		}
		var fields []string
		for _, f := range strings.Split(customFields, ",") {
			fields = append(fields, strings.TrimSpace(f))
		}
		validated, err := validateCustomFields(fields)
		if err != nil {
			return nil, err
		}
		proj := hiddenProjection()
		for _, f := range validated {
			proj[f] = 1
		}
		return proj, nil

	case VisibilityAdmin:
		return bson.M{"__v": 0}, nil

	case VisibilityBasic, "":
		// fallthrough 到默认

	default:
		return nil, domain.NewValidationError(
			"invalid fields mode", []string{string(mode)},
			[]string{string(VisibilityBasic), string(VisibilityAdmin), string(VisibilityCustom)},
		)
	}
	return hiddenProjection(), nil
}

// hiddenProjection 隐藏集的排除投影，每次返回新 map，调用方可以继续改。
func hiddenProjection() bson.M {
	proj := bson.M{}
	for _, f := range hiddenFields {
		proj[f] = 0
	}
	return proj
}
