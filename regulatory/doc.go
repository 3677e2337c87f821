// Package regulatory stores and queries regulatory documents.
//
// Documents are classified by DataType and each type lives in its own index
// under a shared prefix, "regulatory_regulation", "regulatory_guidance", and
// so on. Cross-type reads go through the wildcard pattern
// "regulatory_*", so the DAO never needs to know which index a document
// landed in.
//
// # Reading
//
//	dao, err := regulatory.NewDAO(client)
//	if err != nil {
//		return err
//	}
//
//	result, err := dao.Search(ctx, regulatory.Query{
//		Text:          "capital requirements",
//		Jurisdictions: []regulatory.Jurisdiction{regulatory.JurisdictionEU},
//		Page:          1,
//		Size:          20,
//	})
//
// Search results carry facet aggregations (data types, jurisdictions,
// industries, topics, effective date histogram) for building filter UIs.
// Related finds similar documents via more_like_this; Latest surfaces recent
// publications using engine-side date math.
//
// # Writing
//
// Save and Delete exist for ingestion flows. Save validates the document,
// assigns IDs and timestamps, and routes it to the index matching its data
// type:
//
//	saved, err := dao.Save(ctx, doc, datasource.WithRefresh())
//
// Reads are lenient about stored field shapes; validation applies to writes
// only.
package regulatory
