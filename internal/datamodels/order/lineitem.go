package order

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LineItem 订单内的单条商品明细
type LineItem struct {
	ProductID       string  `json:"productId"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

// DecodeError 明细串解析失败,携带出错订单的 ID
type DecodeError struct {
	OrderID string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode line items of order %s: %v", e.OrderID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeLineItems 解析订单的商品明细串.
// 历史数据里存在用单引号代替双引号写入的明细,解析前统一把
// 单引号规范成双引号,再按 JSON 数组解码,顺序保持原样
func (o *Order) DecodeLineItems() ([]LineItem, error) {
	normalized := strings.ReplaceAll(o.Products, "'", `"`)

	var items []LineItem
	if err := json.Unmarshal([]byte(normalized), &items); err != nil {
		return nil, &DecodeError{OrderID: o.ID, Err: err}
	}
	return items, nil
}
