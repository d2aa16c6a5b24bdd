package usecase_test

import (
	"encoding/json"
	"testing"

	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 商品参照はクライアントごとに形が揺れる。全バリアントの分類を確認する。
func TestProductRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantKind usecase.ProductRefKind
		wantRaw  string
	}{
		{"文字列ID", `"12"`, usecase.RefID, "12"},
		{"数値ID", `12`, usecase.RefID, "12"},
		{"オブジェクトのid", `{"id": 7}`, usecase.RefObjectID, "7"},
		{"オブジェクトのidが文字列", `{"id": "7"}`, usecase.RefObjectID, "7"},
		{"オブジェクトの_id", `{"_id": "42"}`, usecase.RefObjectAltID, "42"},
		{"idと_id両方あればidが勝つ", `{"id": 1, "_id": 2}`, usecase.RefObjectID, "1"},
		{"null", `null`, usecase.RefNone, ""},
		{"空文字列", `""`, usecase.RefNone, ""},
		{"空オブジェクト", `{}`, usecase.RefNone, ""},
		{"想定外のオブジェクトでもエラーにしない", `{"id": ["x"]}`, usecase.RefNone, ""},
		{"真偽値は参照にならない", `true`, usecase.RefNone, ""},
		{"非整数の数値も生値のまま保持する", `12.5`, usecase.RefID, "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref usecase.ProductRef
			err := json.Unmarshal([]byte(tt.json), &ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, ref.Kind)
			assert.Equal(t, tt.wantRaw, ref.Raw)
		})
	}
}

func TestProductRef_Value(t *testing.T) {
	var none usecase.ProductRef
	_, ok := none.Value()
	assert.False(t, ok)

	ref := usecase.ProductRef{Kind: usecase.RefID, Raw: "3"}
	v, ok := ref.Value()
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

// 明細の生入力ごとデコードしたときに両フィールドへ正しく振り分けられること。
func TestOrderItemInput_Decode(t *testing.T) {
	body := `{"product": {"_id": "5"}, "productId": 9, "name": "Cable", "price": 10, "quantity": 2}`

	var in usecase.OrderItemInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, usecase.RefObjectAltID, in.Product.Kind)
	assert.Equal(t, "5", in.Product.Raw)
	assert.Equal(t, usecase.RefID, in.ProductID.Kind)
	assert.Equal(t, "9", in.ProductID.Raw)
	assert.Equal(t, int64(2), in.Quantity)
}
