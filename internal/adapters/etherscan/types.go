package etherscan

import "encoding/json"

// DTOs raw de Etherscan. Todos los campos numéricos llegan como strings.

// envelope es la forma común de todas las respuestas.
// result es una lista en éxito y un string en error.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// tokenTransfer es un item de action=tokentx.
type tokenTransfer struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	ContractAddress string `json:"contractAddress"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
}

// normalTx es un item de action=txlist. Solo interesa el timestamp.
type normalTx struct {
	Hash      string `json:"hash"`
	TimeStamp string `json:"timeStamp"`
}

// sourceCode es un item de action=getsourcecode.
type sourceCode struct {
	ContractName string `json:"ContractName"`
	Proxy        string `json:"Proxy"`
}
