// Debug harness for the reconciliation engine: runs the merge over a
// small inline dataset and prints the resulting plan, so changes to the
// classification or merge rules can be eyeballed without a database or
// storage setup.
package main

import (
	"encoding/json"
	"fmt"
	"log"

	"geosync/core/reconcile"
	"geosync/core/table"
)

func main() {
	persisted := table.New("id", "id", "severity", "street")
	persisted.Append(table.Record{"id": 1, "severity": 2, "street": "Masarykova"})
	persisted.Append(table.Record{"id": 2, "severity": 1, "street": "Husova"})
	persisted.Append(table.Record{"id": 2, "severity": 3, "street": "Husova"})

	incoming := table.New("id", "id", "severity", "cause")
	incoming.Append(table.Record{"id": 1, "severity": 4, "cause": "ice"})
	incoming.Append(table.Record{"id": 2, "severity": nil, "cause": "fog"})
	incoming.Append(table.Record{"id": 2, "severity": 5, "cause": "fog"})
	incoming.Append(table.Record{"id": 3, "severity": 1, "cause": "speed"})

	plan, err := reconcile.Reconcile(persisted, incoming, "id")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Summary ===")
	out, err := json.MarshalIndent(plan.Summary, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))

	fmt.Println("=== Merged ===")
	for i, row := range plan.Merged.Rows {
		fmt.Printf("mask=%-5v %v\n", plan.UpdateMask[i], row)
	}

	fmt.Println("=== Insert Set ===")
	for _, row := range plan.InsertSet.Rows {
		fmt.Printf("           %v\n", row)
	}
}
