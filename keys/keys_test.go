package keys

import (
	"reflect"
	"testing"
)

type Audit struct {
	CreatedBy string
}

type Product struct {
	Audit
	Title string
	Price int
}

type Order struct {
	*Product
	Number string
}

type Prefixed struct{}

func (Prefixed) ResourceKeyPrefix() string { return "Shop.Labels" }

type PointerPrefixed struct{}

func (*PointerPrefixed) ResourceKeyPrefix() string { return "Shop.Ptr" }

const pkg = "github.com/goliatone/go-localization-provider/keys"

func TestBuildKey(t *testing.T) {
	product := reflect.TypeOf(Product{})

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "member", got: BuildKey(product, "Title"), want: pkg + ".Product.Title"},
		{name: "type only", got: BuildKey(product, ""), want: pkg + ".Product"},
		{name: "pointer type", got: BuildKey(reflect.TypeOf(&Product{}), "Title"), want: pkg + ".Product.Title"},
		{name: "nested path", got: BuildKey(product, "Audit.CreatedBy"), want: pkg + ".Product.Audit.CreatedBy"},
		{name: "promoted member", got: BuildKey(product, "CreatedBy"), want: pkg + ".Product.CreatedBy"},
		{name: "value prefixer", got: BuildKey(reflect.TypeOf(Prefixed{}), "Save"), want: "Shop.Labels.Save"},
		{name: "pointer prefixer", got: BuildKey(reflect.TypeOf(PointerPrefixed{}), "Save"), want: "Shop.Ptr.Save"},
		{name: "generic", got: For[Product]("Price"), want: pkg + ".Product.Price"},
		{name: "nil type", got: BuildKey(nil, "X"), want: ".X"},
		{name: "prefixer interface", got: BuildKey(reflect.TypeOf((*KeyPrefixer)(nil)).Elem(), "X"), want: pkg + ".KeyPrefixer.X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildKey_Deterministic(t *testing.T) {
	product := reflect.TypeOf(Product{})

	if BuildKey(product, "Title") != BuildKey(product, "Title") {
		t.Error("same input produced different keys")
	}
	if BuildKey(product, "Title") == BuildKey(product, "Price") {
		t.Error("different members produced the same key")
	}
}

func TestBuildOldKey(t *testing.T) {
	tests := []struct {
		name   string
		t      reflect.Type
		member string
		want   string
	}{
		{name: "declared member", t: reflect.TypeOf(Product{}), member: "Title", want: pkg + ".Product.Title"},
		{name: "promoted member", t: reflect.TypeOf(Product{}), member: "CreatedBy", want: pkg + ".Audit.CreatedBy"},
		{name: "promoted through pointer", t: reflect.TypeOf(Order{}), member: "Title", want: pkg + ".Product.Title"},
		{name: "promoted twice", t: reflect.TypeOf(&Order{}), member: "CreatedBy", want: pkg + ".Audit.CreatedBy"},
		{name: "unknown member", t: reflect.TypeOf(Order{}), member: "Missing", want: pkg + ".Order.Missing"},
		{name: "non struct", t: reflect.TypeOf(0), member: "X", want: "int.X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildOldKey(tt.t, tt.member); got != tt.want {
				t.Errorf("BuildOldKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
