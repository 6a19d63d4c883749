package graph_test

import (
	"fmt"
	"os"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/graph"
)

func ExampleWrite() {
	d := family.NewDocument()
	d, _, _ = d.AddRelative(family.StarterID, family.DirParent, family.Person{ID: "2", Name: "Dad", Gender: family.GenderMale})
	d.Relations[0].ID = "e1"

	_ = graph.Write(d, os.Stdout, graph.FormatJSON)
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "1",
	//       "name": "Me",
	//       "gender": "neutral",
	//       "x": 0,
	//       "y": 0
	//     },
	//     {
	//       "id": "2",
	//       "name": "Dad",
	//       "gender": "male",
	//       "x": 0,
	//       "y": -200
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "id": "e1",
	//       "source": "2",
	//       "target": "1",
	//       "type": "lineage"
	//     }
	//   ],
	//   "rootId": "1"
	// }
}

func ExampleUnmarshal() {
	d, err := graph.Unmarshal([]byte(`{"nodes":[{"id":"a","name":"Ada"},{"id":"b","name":"Bo"}],"edges":[{"id":"e","source":"a","target":"b","type":"spousal"}]}`), graph.FormatJSON)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(d.RootID, d.Relations[0].Type)
	// Output: a spouse
}
