// Package dataform implements the XEP-0004 data form sub-codec used by
// discovery responses to carry extended information.
package dataform

import (
	"github.com/beevik/etree"
)

// NS is the data forms namespace
const NS = "jabber:x:data"

// Form types
const (
	TypeForm   = "form"
	TypeSubmit = "submit"
	TypeCancel = "cancel"
	TypeResult = "result"
)

// Form is a parsed <x/> element.
type Form struct {
	Type         string   `json:"type,omitempty"`
	Title        string   `json:"title,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	Fields       []Field  `json:"fields"`
}

// Field is a single form field.
type Field struct {
	Var         string   `json:"var,omitempty"`
	Type        string   `json:"type,omitempty"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Values      []string `json:"values,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Option is one choice of a list field.
type Option struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// Value returns the first value of the field, or "".
func (f Field) Value() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// Field returns the field named v, if present.
func (f *Form) Field(v string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Var == v {
			return field, true
		}
	}
	return Field{}, false
}

// FormType returns the value of the hidden FORM_TYPE field, which
// identifies the form's registered purpose.
func (f *Form) FormType() string {
	field, ok := f.Field("FORM_TYPE")
	if !ok {
		return ""
	}
	return field.Value()
}

// Parse reads an <x/> element into a Form.
func Parse(x *etree.Element) *Form {
	form := &Form{
		Type:   x.SelectAttrValue("type", ""),
		Fields: ParseFields(x),
	}
	if title := x.SelectElement("title"); title != nil {
		form.Title = title.Text()
	}
	for _, ins := range x.SelectElements("instructions") {
		form.Instructions = append(form.Instructions, ins.Text())
	}
	return form
}

// ParseFields reads the <field/> children of an <x/> element in document
// order. A form without fields yields an empty, non-nil slice.
func ParseFields(x *etree.Element) []Field {
	fields := make([]Field, 0)
	for _, f := range x.SelectElements("field") {
		field := Field{
			Var:   f.SelectAttrValue("var", ""),
			Type:  f.SelectAttrValue("type", ""),
			Label: f.SelectAttrValue("label", ""),
		}
		for _, c := range f.ChildElements() {
			switch c.Tag {
			case "desc":
				field.Description = c.Text()
			case "required":
				field.Required = true
			case "value":
				field.Values = append(field.Values, c.Text())
			case "option":
				opt := Option{Label: c.SelectAttrValue("label", "")}
				if v := c.SelectElement("value"); v != nil {
					opt.Value = v.Text()
				}
				field.Options = append(field.Options, opt)
			}
		}
		fields = append(fields, field)
	}
	return fields
}

// Build appends an <x/> element describing form to parent.
func (f *Form) Build(parent *etree.Element) *etree.Element {
	x := parent.CreateElement("x")
	x.CreateAttr("xmlns", NS)
	if f.Type != "" {
		x.CreateAttr("type", f.Type)
	}
	if f.Title != "" {
		x.CreateElement("title").SetText(f.Title)
	}
	for _, ins := range f.Instructions {
		x.CreateElement("instructions").SetText(ins)
	}
	for _, field := range f.Fields {
		el := x.CreateElement("field")
		if field.Var != "" {
			el.CreateAttr("var", field.Var)
		}
		if field.Type != "" {
			el.CreateAttr("type", field.Type)
		}
		if field.Label != "" {
			el.CreateAttr("label", field.Label)
		}
		if field.Description != "" {
			el.CreateElement("desc").SetText(field.Description)
		}
		if field.Required {
			el.CreateElement("required")
		}
		for _, v := range field.Values {
			el.CreateElement("value").SetText(v)
		}
		for _, opt := range field.Options {
			o := el.CreateElement("option")
			if opt.Label != "" {
				o.CreateAttr("label", opt.Label)
			}
			o.CreateElement("value").SetText(opt.Value)
		}
	}
	return x
}
