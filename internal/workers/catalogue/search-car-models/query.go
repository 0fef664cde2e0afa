package searchcarmodels

// searchFields are boosted so a brand or model hit outranks a description hit.
var searchFields = []string{"brand^3", "model^3", "body_type^2", "brief_info"}

// buildQuery returns the search body for one request. An empty query
// matches every model and relies on the filters alone.
func buildQuery(input *Input, size int) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if input.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     input.Query,
				"fields":    searchFields,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if input.BodyType != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"body_type.keyword": input.BodyType},
		})
	}
	if input.Fuel != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"fuel.keyword": input.Fuel},
		})
	}

	if input.MinPrice != nil || input.MaxPrice != nil {
		bounds := map[string]interface{}{}
		if input.MinPrice != nil {
			bounds["gte"] = *input.MinPrice
		}
		if input.MaxPrice != nil {
			bounds["lte"] = *input.MaxPrice
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"starting_price": bounds},
		})
	}

	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
			map[string]interface{}{"starting_price": map[string]interface{}{"order": "asc", "missing": "_last"}},
		},
	}
}
