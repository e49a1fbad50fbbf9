package cusip

// tables.go defines the table metadata for each record type: the master
// table, its raw-text staging table, the primary-key columns, and the
// positional column list matching the pipe-delimited file layout.
//
// Staging tables carry every field as text so that a load attempt can
// land rows without interpretation. Typed columns (dates, numerics) are
// cast during the staged-to-master merge, which is where bad values are
// meant to surface.

// Column describes one positional field of a PIP record and its landing
// column. Cast, when non-empty, is the SQL type the staging text value is
// cast to during the merge (e.g. "date", "numeric(6,3)").
type Column struct {
	Name string
	Cast string
}

// TableSpec holds everything needed to stage and merge one record type.
type TableSpec struct {
	Type         RecordType
	MasterTable  string
	StagingTable string
	PrimaryKey   []string
	Columns      []Column
}

// FieldCount returns the number of positional fields a data line must have.
func (ts TableSpec) FieldCount() int { return len(ts.Columns) }

// ColumnNames returns the column names in file position order.
func (ts TableSpec) ColumnNames() []string {
	names := make([]string, len(ts.Columns))
	for i, c := range ts.Columns {
		names[i] = c.Name
	}
	return names
}

// Spec returns the table spec for a record type.
func Spec(rt RecordType) TableSpec {
	switch rt {
	case Issuer:
		return issuerSpec
	case Issue:
		return issueSpec
	case IssueAttribute:
		return issueAttributeSpec
	}
	panic("cusip: no table spec for record type " + string(rt))
}

var issuerSpec = TableSpec{
	Type:         Issuer,
	MasterTable:  "issuer",
	StagingTable: "stg_issuer",
	PrimaryKey:   []string{"issuer_num"},
	Columns: []Column{
		{Name: "issuer_num"},
		{Name: "issuer_check"},
		{Name: "issuer_name_1"},
		{Name: "issuer_name_2"},
		{Name: "issuer_name_3"},
		{Name: "issuer_adl_1"},
		{Name: "issuer_adl_2"},
		{Name: "issuer_adl_3"},
		{Name: "issuer_adl_4"},
		{Name: "issuer_sort_key"},
		{Name: "issuer_type"},
		{Name: "issuer_status"},
		{Name: "issuer_del_date", Cast: "date"},
		{Name: "issuer_transaction"},
		{Name: "issuer_state_code"},
		{Name: "issuer_update_date", Cast: "date"},
	},
}

var issueSpec = TableSpec{
	Type:         Issue,
	MasterTable:  "issue",
	StagingTable: "stg_issue",
	PrimaryKey:   []string{"issuer_num", "issue_num"},
	Columns: []Column{
		{Name: "issuer_num"},
		{Name: "issue_num"},
		{Name: "issue_check"},
		{Name: "issue_desc_1"},
		{Name: "issue_desc_2"},
		{Name: "issue_adl_1"},
		{Name: "issue_adl_2"},
		{Name: "issue_adl_3"},
		{Name: "issue_adl_4"},
		{Name: "issue_status"},
		{Name: "dated_date", Cast: "date"},
		{Name: "maturity_date", Cast: "date"},
		{Name: "partial_maturity", Cast: "integer"},
		{Name: "rate", Cast: "numeric(6,3)"},
		{Name: "govt_stimulus_program"},
		{Name: "issue_transaction"},
		{Name: "issue_update_date", Cast: "date"},
	},
}

var issueAttributeSpec = TableSpec{
	Type:         IssueAttribute,
	MasterTable:  "issue_attribute",
	StagingTable: "stg_issue_attribute",
	PrimaryKey:   []string{"issuer_num", "issue_num"},
	Columns: []Column{
		{Name: "issuer_num"},
		{Name: "issue_num"},
		{Name: "alternative_min_tax"},
		{Name: "bank_q"},
		{Name: "callable"},
		{Name: "activity_date", Cast: "date"},
		{Name: "first_coupon_date", Cast: "date"},
		{Name: "init_pub_off"},
		{Name: "payment_frequency"},
		{Name: "currency_code"},
		{Name: "domicile_code"},
		{Name: "underwriter"},
		{Name: "us_cfi_code"},
		{Name: "closing_date", Cast: "date"},
		{Name: "ticker_symbol"},
		{Name: "iso_cfi"},
		{Name: "depos_eligible"},
		{Name: "pre_refund"},
		{Name: "refundable"},
		{Name: "remarketed"},
		{Name: "sinking_fund"},
		{Name: "taxable"},
		{Name: "form"},
		{Name: "enhancements"},
		{Name: "fund_distrb_policy"},
		{Name: "fund_inv_policy"},
		{Name: "fund_type"},
		{Name: "guarantee"},
		{Name: "income_type"},
		{Name: "insured_by"},
		{Name: "ownership_restr"},
		{Name: "payment_status"},
		{Name: "preferred_type"},
		{Name: "putable"},
		{Name: "rate_type"},
		{Name: "redemption"},
		{Name: "source_doc"},
		{Name: "sponsoring"},
		{Name: "voting_rights"},
		{Name: "warrant_assets"},
		{Name: "warrant_status"},
		{Name: "warrant_type"},
		{Name: "where_traded"},
		{Name: "auditor"},
		{Name: "paying_agent"},
		{Name: "tender_agent"},
		{Name: "xfer_agent"},
		{Name: "bond_counsel"},
		{Name: "financial_advisor"},
		{Name: "municipal_sale_date", Cast: "date"},
		{Name: "sale_type"},
		{Name: "offering_amount", Cast: "numeric(5,1)"},
		{Name: "offering_amount_code"},
	},
}
