package chain

import "fmt"

// CoreAsset is the native asset, 1.3.0.
var CoreAsset = AssetID(0)

// AssetAmount is a signed quantity of one asset in its smallest unit.
type AssetAmount struct {
	Amount  int64    `json:"amount"`
	AssetID ObjectID `json:"asset_id"`
}

// NewAssetAmount returns amount of asset.
func NewAssetAmount(amount int64, asset ObjectID) AssetAmount {
	return AssetAmount{Amount: amount, AssetID: asset}
}

// Bytes returns the wire form: int64 amount then the asset instance.
func (a AssetAmount) Bytes() []byte {
	w := &Writer{}
	a.WriteTo(w)
	return w.Result()
}

// WriteTo appends the wire form to w.
func (a AssetAmount) WriteTo(w *Writer) {
	w.Int64(a.Amount).ObjectID(a.AssetID)
}

// ReadAssetAmount decodes an AssetAmount from r.
func ReadAssetAmount(r *Reader) AssetAmount {
	amount := r.Int64()
	return AssetAmount{Amount: amount, AssetID: r.ObjectID(ProtocolSpace, AssetType)}
}

// IsZero reports whether the amount was never set.
func (a AssetAmount) IsZero() bool {
	return a == AssetAmount{}
}

func (a AssetAmount) String() string {
	return fmt.Sprintf("%d %s", a.Amount, a.AssetID)
}
