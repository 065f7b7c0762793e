package utils

// Find 按ID(int32)批量查找数据
// 参数：dataMap-ID到数据的映射，data-全部数据，ids-要查找的ID
// 返回：ids为空时返回全部数据；不存在的ID记入failedIDs
func Find[T any](dataMap map[int32]T, data []T, ids []int32) (okData []T, failedIDs []int32) {
	if len(ids) == 0 {
		return data, nil
	}
	okData = make([]T, 0, len(ids))
	failedIDs = make([]int32, 0)
	for _, id := range ids {
		if d, ok := dataMap[id]; ok {
			okData = append(okData, d)
		} else {
			failedIDs = append(failedIDs, id)
		}
	}
	return
}
