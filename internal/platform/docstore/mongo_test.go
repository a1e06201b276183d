package docstore

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestObjectID(t *testing.T) {
	oid, ok := ObjectID("65a1f0c2e4b0a1b2c3d4e5f6")
	if !ok {
		t.Fatal("expected valid ObjectID")
	}
	if oid.Hex() != "65a1f0c2e4b0a1b2c3d4e5f6" {
		t.Errorf("unexpected hex: %s", oid.Hex())
	}

	for _, bad := range []string{"", "not-an-id", "65a1f0c2e4b0a1b2c3d4e5f", "zza1f0c2e4b0a1b2c3d4e5f6"} {
		if _, ok := ObjectID(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestIndexSpecs_DedupTriple(t *testing.T) {
	specs := indexSpecs()

	bookings, ok := specs[Bookings]
	if !ok {
		t.Fatal("expected indexes on bookings")
	}

	found := false
	for _, m := range bookings {
		keys, ok := m.Keys.(bson.D)
		if !ok || len(keys) != 3 {
			continue
		}
		if keys[0].Key == "email" && keys[1].Key == "appointmentDate" && keys[2].Key == "treatment" {
			found = true
		}
	}
	if !found {
		t.Error("expected compound (email, appointmentDate, treatment) index on bookings")
	}

	if _, ok := specs[Doctors]; ok {
		t.Error("doctors are listed in full and need no lookup index")
	}
}
