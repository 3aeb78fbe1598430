// Package rseries 提供针对 R 倍数序列的纯函数小工具
package rseries

func Sum(s []float64) float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

func Avg(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return Sum(s) / float64(len(s))
}

// Max 返回序列最大值，空序列返回 0
func Max(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	maxVal := s[0]
	for _, v := range s {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Min 返回序列最小值，空序列返回 0
func Min(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	minVal := s[0]
	for _, v := range s {
		if v < minVal {
			minVal = v
		}
	}
	return minVal
}

// CountAtLeast 统计大于等于阈值的元素个数
func CountAtLeast(s []float64, threshold float64) int {
	var count int
	for _, v := range s {
		if v >= threshold {
			count++
		}
	}
	return count
}
