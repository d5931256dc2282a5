package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type priced struct {
	Price decimal.Decimal `bson:"price"`
}

func TestDecimalCodecRoundTrip(t *testing.T) {
	reg := Registry()

	data, err := bson.MarshalWithRegistry(reg, priced{Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)

	raw := bson.Raw(data)
	assert.Equal(t, "19.99", raw.Lookup("price").Decimal128().String())

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(reg, data, &out))
	assert.True(t, out.Price.Equal(decimal.RequireFromString("19.99")))
}

func TestDecimalCodecDecodesLegacyStrings(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": "4.50"})
	require.NoError(t, err)

	var out priced
	require.NoError(t, bson.UnmarshalWithRegistry(Registry(), data, &out))
	assert.True(t, out.Price.Equal(decimal.RequireFromString("4.5")))
}
