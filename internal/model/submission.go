package model

// Chain 项目部署的链
type Chain string

const (
	ChainArbitrumOne   Chain = "Arbitrum One"
	ChainArbitrumOrbit Chain = "Arbitrum Orbit"
	ChainArbitrumNova  Chain = "Arbitrum Nova"
	ChainOffchain      Chain = "Offchain"
)

// Chains 表单下拉框顺序
var Chains = []Chain{ChainArbitrumOne, ChainArbitrumOrbit, ChainArbitrumNova, ChainOffchain}

// Valid 是否为已知链
func (c Chain) Valid() bool {
	for _, known := range Chains {
		if c == known {
			return true
		}
	}
	return false
}

// Category 项目分类
type Category string

const (
	CategoryDeFi   Category = "DeFi"
	CategoryGaming Category = "Gaming"
	CategoryInfra  Category = "Infra"
	CategoryRWA    Category = "RWA"
	CategorySocial Category = "Social"
	CategoryNFT    Category = "NFT"
	CategoryOther  Category = "Other"
)

// Categories 表单下拉框顺序
var Categories = []Category{
	CategoryDeFi,
	CategoryGaming,
	CategoryInfra,
	CategoryRWA,
	CategorySocial,
	CategoryNFT,
	CategoryOther,
}

// Valid 是否为已知分类
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Logo 上传的 logo 文件
type Logo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProjectSubmission 一次表单提交，校验通过后不再修改
type ProjectSubmission struct {
	Name        string
	Description string
	Chain       Chain
	Website     string
	Twitter     string
	Github      string
	Category    Category
	DefiLlama   string // DefiLlama 页面链接
	Contracts   string // 原始输入，逗号/空白/斜杠分隔
	Dune        string
	Logo        Logo
}
