package sesuitetest

import (
	"sort"

	"github.com/beevik/etree"

	"github.com/sesuite-go/sesuite/pkg/soap"
)

// Table answers wrap the record fields in one leading and three trailing
// bookkeeping columns.
var (
	tableHead = []string{"oid"}
	tableTail = []string{"fgenabled", "dtinsert", "dtupdate"}
)

// Envelope builds the SOAP answer to action described by r.
//
// Status, Detail and RecordID are in the workflow namespace. For
// getTableRecord the records are listed in the form namespace, keys sorted.
func Envelope(action soap.Action, r Reply) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("SOAP-ENV:Envelope")
	env.CreateAttr("xmlns:SOAP-ENV", soap.SOAP11Namespace)
	env.CreateAttr("xmlns:wf", soap.Workflow.Namespace())
	env.CreateAttr("xmlns:fm", soap.Form.Namespace())

	body := env.CreateElement("SOAP-ENV:Body")
	resp := body.CreateElement("wf:" + string(action) + "Response")
	resp.CreateElement("wf:Status").SetText(r.Status)
	resp.CreateElement("wf:Detail").SetText(r.Detail)
	if r.RecordID != "" {
		resp.CreateElement("wf:RecordID").SetText(r.RecordID)
	}

	if action == soap.ActionGetTableRecord {
		list := resp.CreateElement("fm:RecordList")
		for _, kv := range tableEntries(r.Records) {
			field := list.CreateElement("fm:TableField")
			field.CreateElement("fm:TableFieldID").SetText(kv[0])
			field.CreateElement("fm:TableFieldValues").SetText(kv[1])
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func tableEntries(records map[string]string) [][2]string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(tableHead)+len(keys)+len(tableTail))
	for _, k := range tableHead {
		out = append(out, [2]string{k, "1"})
	}
	for _, k := range keys {
		out = append(out, [2]string{k, records[k]})
	}
	for _, k := range tableTail {
		out = append(out, [2]string{k, "1"})
	}
	return out
}
