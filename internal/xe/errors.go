package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams      = orz.NewError(10400, "参数无效")
	ErrProfileNotFound    = orz.NewError(10000, "交易档案不存在")
	ErrProfileExists      = orz.NewError(10001, "交易档案已存在")
	ErrLastProfile        = orz.NewError(10002, "至少需要保留一个交易档案")
	ErrTradeNotFound      = orz.NewError(10003, "交易记录不存在")
	ErrRuleNotFound       = orz.NewError(10004, "交易规则不存在")
	ErrInvalidImport      = orz.NewError(10005, "导入文件格式不正确")
	ErrNoCelebration      = orz.NewError(10006, "当前没有待展示的成就")
	ErrInvalidMonth       = orz.NewError(10007, "月份格式不正确，应为 YYYY-MM")
	ErrStateNotReady      = orz.NewError(10008, "应用状态尚未初始化")
	ErrInvalidTradeDate   = orz.NewError(10009, "交易日期格式不正确，应为 YYYY-MM-DD")
	ErrInvalidPositionVal = orz.NewError(10010, "持仓方向只能是 long 或 short")
)
