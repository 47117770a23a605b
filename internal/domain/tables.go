package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&SysScheduler{},
	// Catalog
	&Product{},
	&Resource{},
	// Production
	&ProductionOrder{},
	&ProductionLog{},
}
