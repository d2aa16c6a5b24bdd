package usecase

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ProductRefKind は商品参照がどの形で届いたか。
type ProductRefKind int

const (
	//参照なし
	RefNone ProductRefKind = iota
	//IDを直接指定（"12" や 12）
	RefID
	//オブジェクトの id 属性（{"id": 12}）
	RefObjectID
	//オブジェクトの _id 属性（{"_id": 12}）
	RefObjectAltID
)

// ProductRef は注文明細の商品参照のタグ付きバリアント。
// クライアントごとに形が揺れるので、field探りではなくUnmarshalJSONで1回だけ分類する。
// 値の形式チェック（int64に読めるか）はここではしない。解決時にまとめて行う。
type ProductRef struct {
	Kind ProductRefKind
	Raw  string
}

func (r *ProductRef) UnmarshalJSON(b []byte) error {
	*r = ProductRef{Kind: RefNone}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	//オブジェクト形：id → _id の優先順
	if trimmed[0] == '{' {
		var obj struct {
			ID    json.RawMessage `json:"id"`
			AltID json.RawMessage `json:"_id"`
		}
		//形が想定外なら「参照なし」扱いにする（他のフィールドで解決できるかもしれない）
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil
		}
		if s, ok := scalarString(obj.ID); ok {
			*r = ProductRef{Kind: RefObjectID, Raw: s}
			return nil
		}
		if s, ok := scalarString(obj.AltID); ok {
			*r = ProductRef{Kind: RefObjectAltID, Raw: s}
			return nil
		}
		return nil
	}

	//スカラー形（文字列 or 数値）
	if s, ok := scalarString(trimmed); ok {
		*r = ProductRef{Kind: RefID, Raw: s}
	}
	return nil
}

// Value は参照の生値を返す。未指定なら ok=false。
func (r ProductRef) Value() (string, bool) {
	if r.Kind == RefNone {
		return "", false
	}
	return r.Raw, true
}

// scalarString はJSONのスカラー（文字列/数値）を文字列へ。
// 数値はUseNumberで元の表記のまま取り出す。
func scalarString(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", false
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", false
	}

	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case json.Number:
		return t.String(), true
	}
	return "", false
}
