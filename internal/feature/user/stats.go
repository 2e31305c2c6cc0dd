package user

import "go.mongodb.org/mongo-driver/bson"

// Stats 活跃记录的三个切面，出自同一条 $facet 聚合（一次逻辑扫描，
// 不是调用方串行发三次全表查询）。summary 在空库时为空数组。
type Stats struct {
	Summary        []StatsSummary `bson:"summary" json:"summary"`
	ByAgeRange     []AgeBucket    `bson:"byAgeRange" json:"byAgeRange"`
	ByCreatedMonth []MonthCount   `bson:"byCreatedMonth" json:"byCreatedMonth"`
}

type StatsSummary struct {
	Total  int64    `bson:"total" json:"total"`
	AvgAge *float64 `bson:"avgAge" json:"avgAge"`
	MinAge *int     `bson:"minAge" json:"minAge"`
	MaxAge *int     `bson:"maxAge" json:"maxAge"`
}

// AgeBucket 的 ID 是桶下界（0/18/25/35/50），越界值落到 "Others" 桶。
type AgeBucket struct {
	ID    any   `bson:"_id" json:"_id"`
	Count int64 `bson:"count" json:"count"`
}

// MonthCount 的 ID 是 createdAt 截断到月的 "YYYY-MM"。
type MonthCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// statsPipeline $match 活跃记录后一次 $facet 出三个切面；
// 月度计数按月份字符串升序（即时间升序）。
func statsPipeline() []bson.M {
	return []bson.M{
		{"$match": bson.M{"isDeleted": false}},
		{"$facet": bson.M{
			"summary": []bson.M{
				{"$group": bson.M{
					"_id":    nil,
					"total":  bson.M{"$sum": 1},
					"avgAge": bson.M{"$avg": "$age"},
					"minAge": bson.M{"$min": "$age"},
					"maxAge": bson.M{"$max": "$age"},
				}},
			},
			"byAgeRange": []bson.M{
				{"$bucket": bson.M{
					"groupBy":    "$age",
					"boundaries": bson.A{0, 18, 25, 35, 50, 120},
					"default":    "Others",
					"output":     bson.M{"count": bson.M{"$sum": 1}},
				}},
			},
			"byCreatedMonth": []bson.M{
				{"$group": bson.M{
					"_id": bson.M{"$dateToString": bson.M{
						"format": "%Y-%m",
						"date":   "$createdAt",
					}},
					"count": bson.M{"$sum": 1},
				}},
				{"$sort": bson.M{"_id": 1}},
			},
		}},
	}
}
